package universe

import (
	"time"

	"github.com/pkg/errors"
)

type Universe interface {
	Status() Status
	Options() Options
	Cells() []Cell
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string) error
	SettleWithRandomData()
	Settle(cells []Cell)
	InverseCell(c Cell)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	TogglePlay()
	Step()
	SetInterval(d time.Duration) error
	Clear()
	Close()
}

//Options represents the Universe's configurable options
type Options struct {
	Interval        time.Duration //interval between the generations while running
	FrameInterval   time.Duration //how often the driver checks the schedule
	MaxSteps        int           //0 means no limit
	Engine          string
	StopWhenSettled bool    //finish on extinction or still life
	RandomSize      int     //side of the square filled by SettleWithRandomData
	RandomDensity   float64 //probability of a cell to be alive in the random square
	RandomSeed      int64   //0 means seeding from the clock
	Advanced        map[string]interface{}
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Interval      time.Duration
	Born          int //cells born on the last step
	Died          int //cells died on the last step
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
//Refresh is called from the universe goroutine, the events are the changes since the previous call
type Viewer interface {
	Register(u Universe)
	Refresh(st Status, events []Event)
	Start() error
}

//The universe running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateRun
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	default:
		return "paused"
	}
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefFrameInterval      = time.Millisecond * 16
	DefMaxSteps           = 1000
	DefRandomSize         = 100
	DefRandomDensity      = 0.5
)

var (
	ErrUnknownEngine   = errors.New("unknown engine")
	ErrUnknownTemplate = errors.New("unknown template")
)

var DefaultUniverseOptions = Options{
	Interval:        DefSimulationInterval,
	FrameInterval:   DefFrameInterval,
	MaxSteps:        DefMaxSteps,
	Engine:          DefEngine,
	StopWhenSettled: true,
	RandomSize:      DefRandomSize,
	RandomDensity:   DefRandomDensity,
}

//Validate checks the options before the universe is created
func (o Options) Validate() error {
	if o.Interval <= 0 {
		return errors.Wrapf(ErrInvalidPeriod, "interval %v", o.Interval)
	}
	if o.FrameInterval <= 0 {
		return errors.Errorf("the frame interval must be positive, got %v", o.FrameInterval)
	}
	if o.MaxSteps < 0 {
		return errors.Errorf("max steps can't be negative, got %d", o.MaxSteps)
	}
	if o.RandomSize < 0 {
		return errors.Errorf("random square size can't be negative, got %d", o.RandomSize)
	}
	if o.RandomDensity < 0 || o.RandomDensity > 1 {
		return errors.Errorf("random density must be within [0, 1], got %v", o.RandomDensity)
	}
	if _, ok := Engines[o.Engine]; !ok {
		return errors.Wrapf(ErrUnknownEngine, "%q", o.Engine)
	}
	return nil
}
