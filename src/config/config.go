package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"sparselife/src/universe"
)

var ErrScanInteractive = errors.New("the scan engine is for the batch mode only")

//Duration is the time.Duration written as "150ms" in the configuration file, plain numbers are nanoseconds
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		n, nerr := strconv.ParseInt(string(data), 10, 64)
		if nerr != nil {
			return errors.Errorf("invalid duration %s", data)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	*d = Duration(v)
	return nil
}

//Config holds the configuration of the simulation
type Config struct {
	Interval        Duration `json:"interval"`
	FrameInterval   Duration `json:"frame_interval"`
	MaxSteps        int      `json:"max_steps"`
	Engine          string   `json:"engine"`
	Template        string   `json:"template"`
	Random          bool     `json:"random"`
	RandomSize      int      `json:"random_size"`
	RandomDensity   float64  `json:"random_density"`
	RandomSeed      int64    `json:"random_seed"`
	StopWhenSettled bool     `json:"stop_when_settled"`
	Interactive     bool     `json:"interactive"`
	Paused          bool     `json:"paused"`
	LogFile         string   `json:"log_file"`
}

//DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	o := universe.DefaultUniverseOptions
	return Config{
		Interval:        Duration(o.Interval),
		FrameInterval:   Duration(o.FrameInterval),
		MaxSteps:        o.MaxSteps,
		Engine:          o.Engine,
		Template:        universe.DefTemplate,
		RandomSize:      o.RandomSize,
		RandomDensity:   o.RandomDensity,
		StopWhenSettled: o.StopWhenSettled,
	}
}

//Load loads configuration from JSON file, the fields missing in the file keep the defaults
func Load(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[Load] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[Load] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

//ShadowConfig differs from DefaultConfig in every field
//the flags parsed over both of them are equal only where they are given on the command line
func ShadowConfig() Config {
	c := DefaultConfig()
	c.Interval++
	c.FrameInterval++
	c.MaxSteps++
	c.Engine += "~"
	c.Template += "~"
	c.Random = !c.Random
	c.RandomSize++
	c.RandomDensity++
	c.RandomSeed++
	c.StopWhenSettled = !c.StopWhenSettled
	c.Interactive = !c.Interactive
	c.Paused = !c.Paused
	c.LogFile += "~"
	return c
}

//Merge returns c with the fields given on the command line
//flags are parsed over DefaultConfig and shadow over ShadowConfig, the fields equal in both were set explicitly
func (c Config) Merge(flags, shadow Config) Config {
	if flags.Interval == shadow.Interval {
		c.Interval = flags.Interval
	}
	if flags.FrameInterval == shadow.FrameInterval {
		c.FrameInterval = flags.FrameInterval
	}
	if flags.MaxSteps == shadow.MaxSteps {
		c.MaxSteps = flags.MaxSteps
	}
	if flags.Engine == shadow.Engine {
		c.Engine = flags.Engine
	}
	if flags.Template == shadow.Template {
		c.Template = flags.Template
	}
	if flags.Random == shadow.Random {
		c.Random = flags.Random
	}
	if flags.RandomSize == shadow.RandomSize {
		c.RandomSize = flags.RandomSize
	}
	if flags.RandomDensity == shadow.RandomDensity {
		c.RandomDensity = flags.RandomDensity
	}
	if flags.RandomSeed == shadow.RandomSeed {
		c.RandomSeed = flags.RandomSeed
	}
	if flags.StopWhenSettled == shadow.StopWhenSettled {
		c.StopWhenSettled = flags.StopWhenSettled
	}
	if flags.Interactive == shadow.Interactive {
		c.Interactive = flags.Interactive
	}
	if flags.Paused == shadow.Paused {
		c.Paused = flags.Paused
	}
	if flags.LogFile == shadow.LogFile {
		c.LogFile = flags.LogFile
	}
	return c
}

//Options converts the configuration to the universe options
//the step limit is for the batch mode only, the interactive universe runs until the user quits
func (c Config) Options() universe.Options {
	o := universe.Options{
		Interval:        time.Duration(c.Interval),
		FrameInterval:   time.Duration(c.FrameInterval),
		MaxSteps:        c.MaxSteps,
		Engine:          c.Engine,
		StopWhenSettled: c.StopWhenSettled,
		RandomSize:      c.RandomSize,
		RandomDensity:   c.RandomDensity,
		RandomSeed:      c.RandomSeed,
	}
	if c.Interactive {
		o.MaxSteps = 0
		o.StopWhenSettled = false
	}
	return o
}

//Validate checks the configuration at the program boundary
func (c Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return err
	}
	//the scan engine visits the whole bounding box, a far glider in the terminal would freeze it
	if c.Interactive && c.Engine == "scan" {
		return ErrScanInteractive
	}
	if c.Random {
		return nil
	}
	for _, name := range universe.TemplateNames() {
		if name == c.Template {
			return nil
		}
	}
	return errors.Wrapf(universe.ErrUnknownTemplate, "%q", c.Template)
}
