package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"sparselife/src/config"
	"sparselife/src/universe"
	"sparselife/src/view"
)

func main() {
	cfg := initOptions()

	logFile, err := initLog(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if cfg.Interactive {
		err = runInteractive(cfg)
	} else {
		err = runBatch(cfg)
	}
	if err != nil {
		log.Printf("exit: %+v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initOptions() config.Config {
	cli := newCommandLine(config.DefaultConfig())
	cli.parser.ShowHelpOnUnexpected = true
	cfg, err := resolveConfig(cli, os.Args[1:])
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		cli.parser.ShowHelpAndExit(err.Error())
	}
	return cfg
}

//resolveConfig parses the flags, the flags given on the command line win over the configuration file
func resolveConfig(cli *commandLine, args []string) (config.Config, error) {
	flags, err := cli.parse(args)
	if err != nil || cli.configFile == "" {
		return flags, err
	}
	fileCfg, err := config.Load(cli.configFile)
	if err != nil {
		return flags, err
	}
	shadow, err := parseShadow(args)
	if err != nil {
		return flags, err
	}
	return fileCfg.Merge(flags, shadow), nil
}

//commandLine binds the flags to the configuration fields
type commandLine struct {
	parser      *flaggy.Parser
	cfg         config.Config
	configFile  string
	interval    time.Duration
	frame       time.Duration
	keepRunning bool
}

func newCommandLine(base config.Config) *commandLine {
	c := &commandLine{
		parser:      flaggy.NewParser("sparselife"),
		cfg:         base,
		interval:    time.Duration(base.Interval),
		frame:       time.Duration(base.FrameInterval),
		keepRunning: !base.StopWhenSettled,
	}

	engineNames := make([]string, 0, len(universe.Engines))
	for k := range universe.Engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)

	p := c.parser
	p.Description = "\"The Life\" game simulation on the unbounded plane"
	p.ShowHelpOnUnexpected = false
	p.String(&c.configFile, "c", "config", "JSON configuration file, the flags win over it")
	p.Duration(&c.interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Duration(&c.frame, "f", "frame", "How often the schedule is checked")
	p.Int(&c.cfg.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, batch mode only")
	p.Bool(&c.keepRunning, "", "keepRunning", "Don't stop the batch simulation when the universe is empty or still")
	p.Bool(&c.cfg.Interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&c.cfg.Paused, "p", "paused", "Start paused in the interactive mode")
	p.Bool(&c.cfg.Random, "r", "random", "Settle with random data")
	p.Int(&c.cfg.RandomSize, "", "size", "Side of the random square around the origin")
	p.Float64(&c.cfg.RandomDensity, "", "density", "Probability of a cell to be alive in the random square")
	p.Int64(&c.cfg.RandomSeed, "", "seed", "Random seed, 0 seeds from the clock")
	p.String(&c.cfg.Engine, "e", "engine", "Engine to use ["+strings.Join(engineNames, "|")+"], scan is for the batch mode only")
	p.String(&c.cfg.Template, "t", "template", "Template to settle ["+strings.Join(universe.TemplateNames(), "|")+"]")
	p.String(&c.cfg.LogFile, "l", "log", "Log file, the interactive mode logs nothing without it")
	return c
}

func (c *commandLine) parse(args []string) (config.Config, error) {
	if err := c.parser.ParseArgs(args); err != nil {
		return c.cfg, errors.Wrap(err, "can't parse the flags")
	}
	c.cfg.Interval = config.Duration(c.interval)
	c.cfg.FrameInterval = config.Duration(c.frame)
	c.cfg.StopWhenSettled = !c.keepRunning
	return c.cfg, nil
}

//parseShadow parses the flags once more over the shadow configuration
//flaggy doesn't report which flags are set, the fields given on the command line are equal in both parses
func parseShadow(args []string) (config.Config, error) {
	cli := newCommandLine(config.ShadowConfig())
	cli.parser.ShowHelpWithHFlag = false
	cli.parser.ShowVersionWithVersionFlag = false
	return cli.parse(args)
}

//initLog directs the log to the file if it's set
//the interactive mode owns the terminal, so the log is discarded there without the file
func initLog(cfg config.Config) (*os.File, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.LogFile == "" {
		if cfg.Interactive {
			log.SetOutput(io.Discard)
		}
		return nil, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open the log file %s", cfg.LogFile)
	}
	log.SetOutput(f)
	return f, nil
}

func newUniverse(cfg config.Config, stateCh chan universe.Status) (*universe.BaseUniverse, error) {
	o := cfg.Options()
	u, err := universe.NewBaseUniverse(&o, stateCh)
	if err != nil {
		return nil, err
	}
	if cfg.Random {
		u.SettleWithRandomData()
		log.Printf("settled with random data, square %d, density %v", o.RandomSize, o.RandomDensity)
	} else if err := u.SettleTemplate(cfg.Template); err != nil {
		u.Close()
		return nil, err
	} else {
		log.Printf("settled with template %q", cfg.Template)
	}
	return u, nil
}

func runInteractive(cfg config.Config) error {
	u, err := newUniverse(cfg, nil)
	if err != nil {
		return err
	}
	defer u.Close()

	v, err := view.NewViewTerminal()
	if err != nil {
		return err
	}
	u.RegisterViewer(v)
	if !cfg.Paused {
		u.Run()
	}
	log.Printf("interactive mode started, engine %s", cfg.Engine)
	return v.Start()
}

//runBatch runs the simulation until it's finished or interrupted
func runBatch(cfg config.Config) error {
	fmt.Printf("\"The Life\" game simulation started...\n")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stateCh := make(chan universe.Status, 10) //the buffered channel to getting the universe status
	u, err := newUniverse(cfg, stateCh)
	if err != nil {
		return err
	}
	defer u.Close()

	out := view.NewConsoleOut(os.Stdout)
	_ = out.Start()
	u.RegisterViewer(out)

	eg, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	eg.Go(func() error {
		defer close(done)
		for {
			select {
			case st := <-stateCh:
				if st.RunningMode == universe.RunningStateFinished {
					log.Printf("finished, iteration is: %v", st.IterationNum)
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	eg.Go(func() error {
		select {
		case <-ctx.Done():
			u.Stop()
			return errors.New("interrupted")
		case <-done:
			return nil
		}
	})

	u.Run()
	return eg.Wait()
}
