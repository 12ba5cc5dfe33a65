package universe

import (
	"time"

	"github.com/pkg/errors"
)

//ErrInvalidPeriod is returned for the zero or negative simulation interval
var ErrInvalidPeriod = errors.New("the simulation interval must be positive")

/*
	Scheduler decides on which frame the next generation is calculated
	while playing the generations follow the period, while paused only the requested steps are done
	several step requests before the next frame are collapsed into one
*/
type Scheduler struct {
	playing       bool
	period        time.Duration
	elapsed       time.Duration
	stepRequested bool
}

//NewScheduler creates the paused scheduler
func NewScheduler(period time.Duration) (*Scheduler, error) {
	if period <= 0 {
		return nil, errors.Wrapf(ErrInvalidPeriod, "got %v", period)
	}
	return &Scheduler{period: period}, nil
}

func (s *Scheduler) Playing() bool {
	return s.playing
}

func (s *Scheduler) Period() time.Duration {
	return s.period
}

//SetPlaying switches the auto advance mode
func (s *Scheduler) SetPlaying(playing bool) {
	if playing && !s.playing {
		s.stepRequested = false
	}
	s.playing = playing
}

//TogglePlaying inverses the auto advance mode and returns the new one
func (s *Scheduler) TogglePlaying() bool {
	s.SetPlaying(!s.playing)
	return s.playing
}

//SetPeriod changes the interval between the generations
//the progress to the next generation is reset if the period is changed
func (s *Scheduler) SetPeriod(d time.Duration) error {
	if d <= 0 {
		return errors.Wrapf(ErrInvalidPeriod, "got %v", d)
	}
	if d != s.period {
		s.period = d
		s.elapsed = 0
	}
	return nil
}

//RequestStep asks for one generation on the next frame, ignored while playing
func (s *Scheduler) RequestStep() bool {
	if s.playing {
		return false
	}
	s.stepRequested = true
	return true
}

//Tick moves the scheduler forward by delta and reports whether the next generation is due
//at most one generation is reported per tick
func (s *Scheduler) Tick(delta time.Duration) bool {
	if s.playing {
		s.elapsed += delta
		if s.elapsed < s.period {
			return false
		}
		s.elapsed %= s.period
		return true
	}
	if s.stepRequested {
		s.stepRequested = false
		return true
	}
	return false
}
