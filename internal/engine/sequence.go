package engine

import (
	"time"

	"github.com/maxwellito/tetrispad/internal/clock"
)

// Step is one stage of a Sequence: wait, then run.
type Step struct {
	Wait time.Duration
	Run  func()
}

type sequenceState int

const (
	sequenceIdle sequenceState = iota
	sequenceRunning
	sequenceSuspended
	sequenceDone
	sequenceCancelled
)

// Sequence runs a fixed list of timed steps on a clock. A suspended
// sequence remembers how much of the current wait is left and re-arms only
// that remainder on Resume. Steps with no wait run synchronously.
type Sequence struct {
	clock    clock.Clock
	steps    []Step
	onDone   func()
	next     int
	state    sequenceState
	timer    clock.Timer
	deadline time.Time
	left     time.Duration
	waiting  bool
}

// NewSequence creates an idle sequence. onDone, if not nil, runs after the
// last step.
func NewSequence(c clock.Clock, steps []Step, onDone func()) *Sequence {
	return &Sequence{clock: c, steps: steps, onDone: onDone}
}

// Start begins the sequence. It has no effect after the first call.
func (s *Sequence) Start() {
	if s.state != sequenceIdle {
		return
	}
	s.state = sequenceRunning
	s.advance()
}

// Suspend stops the pending wait. It returns false if the sequence was not
// running.
func (s *Sequence) Suspend() bool {
	if s.state != sequenceRunning {
		return false
	}
	s.state = sequenceSuspended
	s.waiting = s.timer != nil
	if s.waiting {
		s.timer.Stop()
		s.timer = nil
		s.left = s.deadline.Sub(s.clock.Now())
	}
	return true
}

// Resume continues a suspended sequence with whatever was left of its wait.
func (s *Sequence) Resume() bool {
	if s.state != sequenceSuspended {
		return false
	}
	s.state = sequenceRunning
	switch {
	case !s.waiting:
		s.advance()
	case s.left > 0:
		s.arm(s.left)
	default:
		s.fire()
	}
	return true
}

// Cancel stops the sequence for good; onDone is not called.
func (s *Sequence) Cancel() {
	if s.state == sequenceDone || s.state == sequenceCancelled {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = sequenceCancelled
}

// Running reports whether the sequence has started and neither finished nor
// been cancelled. A suspended sequence is still running.
func (s *Sequence) Running() bool {
	return s.state == sequenceRunning || s.state == sequenceSuspended
}

// Suspended reports whether the sequence is waiting for Resume.
func (s *Sequence) Suspended() bool {
	return s.state == sequenceSuspended
}

// Remaining returns the number of steps that have not run yet.
func (s *Sequence) Remaining() int {
	return len(s.steps) - s.next
}

func (s *Sequence) advance() {
	for s.state == sequenceRunning {
		if s.next >= len(s.steps) {
			s.finish()
			return
		}
		if wait := s.steps[s.next].Wait; wait > 0 {
			s.arm(wait)
			return
		}
		s.runNext()
	}
}

func (s *Sequence) arm(d time.Duration) {
	s.deadline = s.clock.Now().Add(d)
	s.timer = s.clock.AfterFunc(d, s.fire)
}

func (s *Sequence) fire() {
	s.timer = nil
	if s.state != sequenceRunning {
		return
	}
	s.runNext()
	s.advance()
}

func (s *Sequence) runNext() {
	step := s.steps[s.next]
	s.next++
	if step.Run != nil {
		step.Run()
	}
}

func (s *Sequence) finish() {
	s.state = sequenceDone
	if s.onDone != nil {
		s.onDone()
	}
}
