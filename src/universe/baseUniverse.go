package universe

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
)

//BaseUniverse is the simulation driver
//implements Universe interface
//the live set, the scheduler and the status are owned by the mainLoop goroutine,
//the public methods only pass commands to it
type BaseUniverse struct {
	options   Options
	engine    Engine
	live      *LiveSet
	scheduler *Scheduler
	status    Status
	pending   []Event //the events not delivered to the views yet
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	rnd       *rand.Rand
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
//stateCh is optional, if set each status change is written to it and must be read
func NewBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	u, err := newBaseUniverse(o, stateCh)
	if err != nil {
		return nil, err
	}
	go u.mainLoop()
	return u, nil
}

func newBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	if err := o.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid universe options")
	}
	scheduler, err := NewScheduler(o.Interval)
	if err != nil {
		return nil, err
	}

	u := BaseUniverse{
		options:   *o,
		engine:    Engines[o.Engine],
		live:      NewLiveSet(),
		scheduler: scheduler,
		stateCh:   stateCh,
		templates: map[string]Template{},
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	u.options.Advanced = map[string]interface{}{"engine": o.Engine}
	for k, v := range o.Advanced {
		u.options.Advanced[k] = v
	}
	seed := o.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	u.rnd = rand.New(rand.NewSource(seed))
	u.status.Interval = o.Interval
	u.live.Observe(func(e Event) {
		u.pending = append(u.pending, e)
	})
	for _, t := range DefaultTemplates {
		u.templates[t.Name] = t
	}
	return &u, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.exec(func() {
		u.templates[tmpl.Name] = tmpl
	})
}

//Settle makes the cells alive
func (u *BaseUniverse) Settle(cells []Cell) {
	u.exec(func() {
		u.settle(cells)
		u.publish()
	})
}

//SettleTemplate populates the universe with the seeding template, returns when it's done
func (u *BaseUniverse) SettleTemplate(name string) (err error) {
	u.call(func() {
		tmpl, ok := u.templates[name]
		if !ok {
			err = errors.Wrapf(ErrUnknownTemplate, "%q", name)
			return
		}
		u.settle(tmpl.Cells)
		u.publish()
	})
	return
}

//SettleWithRandomData clears the universe and populates the square around the origin with random cells
func (u *BaseUniverse) SettleWithRandomData() {
	u.exec(func() {
		u.clear()
		size := int64(u.options.RandomSize)
		for x := -size / 2; x < size-size/2; x++ {
			for y := -size / 2; y < size-size/2; y++ {
				if u.rnd.Float64() < u.options.RandomDensity {
					u.live.Insert(Cell{x, y})
				}
			}
		}
		u.status.LiveCells = u.live.Len()
		u.publish()
	})
}

//InverseCell inverses the cell state
func (u *BaseUniverse) InverseCell(c Cell) {
	u.exec(func() {
		u.live.Toggle(c)
		u.status.LiveCells = u.live.Len()
		u.publish()
	})
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
//the viewer gets all the live cells as born ones right away
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.call(func() {
		u.views = append(u.views, v)
		v.Register(u)
		cells := u.live.Cells()
		events := make([]Event, len(cells))
		for i, c := range cells {
			events[i] = Event{c, Born}
		}
		v.Refresh(u.status, events)
	})
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() (st Status) {
	u.call(func() {
		st = u.status
	})
	return
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Cells returns the sorted snapshot of the live cells
func (u *BaseUniverse) Cells() (cells []Cell) {
	u.call(func() {
		cells = u.live.Cells()
	})
	return
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.exec(u.run)
}

//Stop stops the universe simulation, returns immediately
func (u *BaseUniverse) Stop() {
	u.exec(u.stop)
}

//TogglePlay runs the stopped universe and stops the running one
func (u *BaseUniverse) TogglePlay() {
	u.exec(func() {
		if u.scheduler.Playing() {
			u.stop()
		} else {
			u.run()
		}
	})
}

//Step requests one simulation step, returns immediately
//ignored while running, several requests before the next frame give one step
func (u *BaseUniverse) Step() {
	u.exec(func() {
		u.scheduler.RequestStep()
	})
}

//SetInterval changes the interval between the steps, the new interval is used from the next frame
func (u *BaseUniverse) SetInterval(d time.Duration) error {
	if d <= 0 {
		return errors.Wrapf(ErrInvalidPeriod, "got %v", d)
	}
	u.exec(func() {
		if err := u.scheduler.SetPeriod(d); err != nil {
			log.Printf("interval is not changed: %v", err)
			return
		}
		u.status.Interval = d
		u.publish()
	})
	return nil
}

//Clear stops the simulation, kills all cells and resets the counters, returns immediately
func (u *BaseUniverse) Clear() {
	u.exec(func() {
		u.clear()
		u.publish()
	})
}

//Close stops the main loop and waits for it
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
	})
	<-u.done
}

//mainLoop - the main cycle, should start as a goroutine
//executes the commands and checks the schedule on each frame
func (u *BaseUniverse) mainLoop() {
	defer close(u.done)
	frame := time.NewTicker(u.options.FrameInterval)
	defer frame.Stop()
	last := time.Now()
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case now := <-frame.C:
			u.frame(now.Sub(last))
			last = now
		case <-u.closeCh:
			return
		}
	}
}

//exec passes the command to the main loop, the command is dropped if the loop is closed
func (u *BaseUniverse) exec(cmd func()) {
	select {
	case u.controlCh <- cmd:
	case <-u.done:
	}
}

//call passes the command to the main loop and waits for it
func (u *BaseUniverse) call(cmd func()) {
	ret := make(chan struct{})
	u.exec(func() {
		cmd()
		close(ret)
	})
	select {
	case <-ret:
	case <-u.done:
	}
}

//frame moves the scheduler forward and does the step if it's due
func (u *BaseUniverse) frame(delta time.Duration) {
	if u.scheduler.Tick(delta) {
		u.step()
	}
}

//settle makes the cells alive
func (u *BaseUniverse) settle(cells []Cell) {
	for _, c := range cells {
		u.live.Insert(c)
	}
	u.status.LiveCells = u.live.Len()
}

//run starts the universe simulation
//the simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	if u.options.MaxSteps != 0 && u.status.IterationNum >= u.options.MaxSteps {
		return
	}
	u.scheduler.SetPlaying(true)
	u.status.RunningMode = RunningStateRun
	u.publish()
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	u.scheduler.SetPlaying(false)
	if u.status.RunningMode == RunningStateRun {
		u.status.RunningMode = RunningStateManual
	}
	u.publish()
}

//step calculates the next generation
func (u *BaseUniverse) step() {
	start := time.Now()
	d := u.engine(u.live)
	u.live.Apply(d)

	u.status.IterationNum++
	u.status.LiveCells = u.live.Len()
	u.status.IterationTime = time.Since(start)
	u.status.Born = len(d.Born)
	u.status.Died = len(d.Died)

	finished := u.options.MaxSteps != 0 && u.status.IterationNum >= u.options.MaxSteps
	if u.options.StopWhenSettled && (u.live.Len() == 0 || d.Empty()) {
		finished = true
	}
	if finished {
		u.scheduler.SetPlaying(false)
		u.status.RunningMode = RunningStateFinished
		log.Printf("finished at iteration %d, live cells: %d", u.status.IterationNum, u.status.LiveCells)
	}
	u.publish()
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.scheduler.SetPlaying(false)
	u.live.Clear()
	u.status.IterationNum = 0
	u.status.LiveCells = 0
	u.status.Born = 0
	u.status.Died = 0
	u.status.RunningMode = RunningStateManual
}

//publish delivers the pending events to the views and the status to the stateCh
func (u *BaseUniverse) publish() {
	events := u.pending
	u.pending = nil
	for _, v := range u.views {
		v.Refresh(u.status, events)
	}
	if u.stateCh != nil {
		select {
		case u.stateCh <- u.status:
		case <-u.closeCh:
		}
	}
}
