package universe

import (
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type recordingViewer struct {
	u        Universe
	statuses []Status
	events   [][]Event
}

func (v *recordingViewer) Register(u Universe) { v.u = u }

func (v *recordingViewer) Refresh(st Status, events []Event) {
	v.statuses = append(v.statuses, st)
	v.events = append(v.events, events)
}

func (v *recordingViewer) Start() error { return nil }

func (v *recordingViewer) last() (Status, []Event) {
	return v.statuses[len(v.statuses)-1], v.events[len(v.events)-1]
}

func testOptions() Options {
	o := DefaultUniverseOptions
	o.Interval = 10 * time.Millisecond
	o.FrameInterval = time.Millisecond
	o.MaxSteps = 0
	o.RandomSeed = 1
	return o
}

//newTestUniverse creates the universe without the main loop, the test drives it directly
func newTestUniverse(t *testing.T, o Options) (*BaseUniverse, *recordingViewer) {
	t.Helper()
	u, err := newBaseUniverse(&o, nil)
	if err != nil {
		t.Fatal(err)
	}
	v := &recordingViewer{}
	u.views = append(u.views, v)
	return u, v
}

func TestBaseUniverse_StepDeliversEvents(t *testing.T) {
	u, v := newTestUniverse(t, testOptions())
	u.settle([]Cell{{-1, 0}, {0, 0}, {1, 0}})
	u.publish()

	u.scheduler.RequestStep()
	u.scheduler.RequestStep()
	u.frame(0)
	u.frame(0)

	st, events := v.last()
	if st.IterationNum != 1 {
		t.Fatalf("expected one step, got %d", st.IterationNum)
	}
	if st.LiveCells != 3 || st.Born != 2 || st.Died != 2 {
		t.Fatalf("unexpected status %+v", st)
	}
	want := []Event{
		{Cell{-1, 0}, Died},
		{Cell{1, 0}, Died},
		{Cell{0, -1}, Born},
		{Cell{0, 1}, Born},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
}

func TestBaseUniverse_PlayingFollowsInterval(t *testing.T) {
	u, v := newTestUniverse(t, testOptions())
	u.settle([]Cell{{-1, 0}, {0, 0}, {1, 0}})
	u.run()

	for i := 0; i < 5; i++ {
		u.frame(4 * time.Millisecond)
	}
	st, _ := v.last()
	if st.IterationNum != 2 {
		t.Fatalf("expected 2 steps in 20ms with 10ms interval, got %d", st.IterationNum)
	}
	if st.RunningMode != RunningStateRun {
		t.Fatalf("expected running, got %v", st.RunningMode)
	}

	u.stop()
	u.frame(time.Second)
	if st, _ = v.last(); st.IterationNum != 2 || st.RunningMode != RunningStateManual {
		t.Fatalf("stopped universe must not step, got %+v", st)
	}
}

func TestBaseUniverse_FinishesWhenSettled(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		live  int
	}{
		{"still life", []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, 4},
		{"extinction", []Cell{{0, 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := newTestUniverse(t, testOptions())
			u.settle(tt.cells)
			u.run()
			u.frame(time.Second)

			st, _ := v.last()
			if st.RunningMode != RunningStateFinished || st.LiveCells != tt.live {
				t.Fatalf("unexpected status %+v", st)
			}
			if u.scheduler.Playing() {
				t.Fatal("finished universe must stop playing")
			}
		})
	}
}

func TestBaseUniverse_MaxSteps(t *testing.T) {
	o := testOptions()
	o.MaxSteps = 3
	u, v := newTestUniverse(t, o)
	u.settle([]Cell{{-1, 0}, {0, 0}, {1, 0}})
	u.run()
	for i := 0; i < 10; i++ {
		u.frame(o.Interval)
	}

	st, _ := v.last()
	if st.IterationNum != 3 || st.RunningMode != RunningStateFinished {
		t.Fatalf("unexpected status %+v", st)
	}
	u.run()
	if u.scheduler.Playing() {
		t.Fatal("run after max steps must be ignored")
	}
}

func TestBaseUniverse_Clear(t *testing.T) {
	u, v := newTestUniverse(t, testOptions())
	u.settle([]Cell{{0, 0}, {1, 0}})
	u.run()
	u.clear()
	u.publish()

	st, events := v.last()
	if st.LiveCells != 0 || st.IterationNum != 0 || st.RunningMode != RunningStateManual {
		t.Fatalf("unexpected status %+v", st)
	}
	if u.scheduler.Playing() {
		t.Fatal("clear must stop playing")
	}
	want := []Event{{Cell{0, 0}, Died}, {Cell{1, 0}, Died}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
}

func TestBaseUniverse_RandomData(t *testing.T) {
	o := testOptions()
	o.RandomSize = 10
	o.RandomDensity = 1
	u, err := NewBaseUniverse(&o, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	u.SettleWithRandomData()
	cells := u.Cells()
	if len(cells) != 100 {
		t.Fatalf("expected 100 cells, got %d", len(cells))
	}
	if cells[0] != (Cell{-5, -5}) || cells[99] != (Cell{4, 4}) {
		t.Fatalf("unexpected square %v..%v", cells[0], cells[99])
	}
}

func TestBaseUniverse_RunUntilFinished(t *testing.T) {
	o := testOptions()
	o.Interval = time.Millisecond
	o.MaxSteps = 4
	stateCh := make(chan Status, 10)
	u, err := NewBaseUniverse(&o, stateCh)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if err := u.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}
	v := &recordingViewer{}
	u.RegisterViewer(v)
	if v.u == nil || len(v.events) != 1 || len(v.events[0]) != 3 {
		t.Fatalf("viewer must get the live cells on register, got %v", v.events)
	}

	u.Run()
	timeout := time.After(5 * time.Second)
	for finished := false; !finished; {
		select {
		case st := <-stateCh:
			finished = st.RunningMode == RunningStateFinished
		case <-timeout:
			t.Fatal("universe has not finished")
		}
	}

	if st := u.Status(); st.IterationNum != 4 {
		t.Fatalf("expected 4 iterations, got %d", st.IterationNum)
	}
	want := []Cell{{-1, 0}, {0, 0}, {1, 0}}
	if got := u.Cells(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBaseUniverse_Errors(t *testing.T) {
	u, err := NewBaseUniverse(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if err := u.SettleTemplate("nope"); errors.Cause(err) != ErrUnknownTemplate {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if err := u.SetInterval(-time.Second); errors.Cause(err) != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if err := u.SetInterval(time.Second); err != nil {
		t.Fatal(err)
	}
	if st := u.Status(); st.Interval != time.Second {
		t.Fatalf("expected the new interval, got %v", st.Interval)
	}
}

func TestBaseUniverse_ClosedIsSafe(t *testing.T) {
	u, err := NewBaseUniverse(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	u.Close()
	u.Close()
	u.Step()
	if cells := u.Cells(); cells != nil {
		t.Fatalf("closed universe must return nothing, got %v", cells)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		cause  error
	}{
		{"defaults", func(o *Options) {}, nil},
		{"zero interval", func(o *Options) { o.Interval = 0 }, ErrInvalidPeriod},
		{"unknown engine", func(o *Options) { o.Engine = "quantum" }, ErrUnknownEngine},
		{"negative frame", func(o *Options) { o.FrameInterval = -1 }, nil},
		{"density", func(o *Options) { o.RandomDensity = 1.5 }, nil},
		{"max steps", func(o *Options) { o.MaxSteps = -1 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultUniverseOptions
			tt.modify(&o)
			err := o.Validate()
			if tt.name == "defaults" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.cause != nil && errors.Cause(err) != tt.cause {
				t.Fatalf("expected %v, got %v", tt.cause, err)
			}
		})
	}
}
