// Package sched provides resumable tasks advanced one tick at a time.
//
// A task never reads the wall clock. The caller passes the elapsed time of
// each tick to Step, and the task suspends either until the next tick or
// until a fixed amount of elapsed time has passed.
package sched

import (
	"errors"
	"fmt"
	"time"
)

// ErrRunaway is returned by Drain when a task does not finish within its step limit.
var ErrRunaway = errors.New("task did not finish")

// DrainStep is the elapsed time Drain feeds a task on each step.
const DrainStep = time.Second

// Task is a cooperative operation resumed once per tick.
type Task interface {
	// Step advances the task by dt and reports whether it has finished.
	Step(dt time.Duration) bool
}

type stepKind int

const (
	stepDo stepKind = iota
	stepWait
	stepNextTick
)

type step struct {
	kind stepKind
	fn   func()
	d    time.Duration
}

// Script is a Task made of ordered steps: actions, timed waits and tick
// boundaries. Steps may be appended while the script runs, including from
// inside one of its own actions. The zero value is an empty script.
type Script struct {
	steps   []step
	pos     int
	waited  time.Duration
	stopped bool
	ticks   int
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{}
}

// Do appends an action. Actions run back to back within a tick until a
// suspension point is reached.
func (s *Script) Do(fn func()) *Script {
	s.steps = append(s.steps, step{kind: stepDo, fn: fn})
	return s
}

// Wait appends a suspension lasting d of elapsed time. Elapsed time beyond d
// carries over to the steps that follow.
func (s *Script) Wait(d time.Duration) *Script {
	if d < 0 {
		d = 0
	}
	s.steps = append(s.steps, step{kind: stepWait, d: d})
	return s
}

// NextTick appends a suspension until the following Step call.
// Elapsed time left over in the current tick is discarded.
func (s *Script) NextTick() *Script {
	s.steps = append(s.steps, step{kind: stepNextTick})
	return s
}

// Stop ends the script. Remaining steps never run.
func (s *Script) Stop() {
	s.stopped = true
}

// Done reports whether the script has finished or been stopped.
func (s *Script) Done() bool {
	return s.stopped || s.pos >= len(s.steps)
}

// Ticks returns how many times Step has been called.
func (s *Script) Ticks() int {
	return s.ticks
}

// Progress returns the completed fraction of the current timed wait, or 0
// when the script is not waiting.
func (s *Script) Progress() float64 {
	if s.Done() {
		return 0
	}
	st := s.steps[s.pos]
	if st.kind != stepWait || st.d == 0 {
		return 0
	}
	return float64(s.waited) / float64(st.d)
}

// Step advances the script by dt.
func (s *Script) Step(dt time.Duration) bool {
	s.ticks++
	budget := dt

	for !s.Done() {
		st := s.steps[s.pos]
		switch st.kind {
		case stepDo:
			s.pos++
			if st.fn != nil {
				st.fn()
			}
		case stepNextTick:
			s.pos++
			return s.Done()
		case stepWait:
			s.waited += budget
			if s.waited < st.d {
				return false
			}
			budget = s.waited - st.d
			s.waited = 0
			s.pos++
		default:
			panic(fmt.Sprintf("sched: unknown step kind %d", st.kind))
		}
	}
	return true
}

// Drain steps t until it finishes, feeding DrainStep each time.
// It gives up with ErrRunaway after limit steps.
func Drain(t Task, limit int) error {
	for i := 0; i < limit; i++ {
		if t.Step(DrainStep) {
			return nil
		}
	}
	return fmt.Errorf("drain after %d steps: %w", limit, ErrRunaway)
}

// Func adapts a function to a Task.
type Func func(dt time.Duration) bool

// Step calls f.
func (f Func) Step(dt time.Duration) bool {
	return f(dt)
}
