package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Scheduler owns the virtual clock and the event queue. The clock is
// monotonically non-decreasing and advanced only by the run loop; process
// entities read it through Now() to record timestamps but never move it.
type Scheduler struct {
	Clock float64
	Queue *EventQueue

	nextEventID uint64 // per-scheduler counter for deterministic event ordering
}

// NewScheduler creates a scheduler with an empty event queue at clock 0.
func NewScheduler() *Scheduler {
	return &Scheduler{
		Queue: NewEventQueue(),
	}
}

// Now returns the current virtual time in minutes.
func (s *Scheduler) Now() float64 {
	return s.Clock
}

// newEventID generates the next event ID for this scheduler.
func (s *Scheduler) newEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

// Schedule enqueues fn to run after delay minutes of virtual time.
// A non-positive or non-finite delay is a programming error: processes
// suspend into the future, and same-instant hand-offs (resource grants,
// buffer hand-offs) happen inline rather than through the queue.
func (s *Scheduler) Schedule(delay float64, fn func()) {
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay <= 0 {
		panic(fmt.Sprintf("Schedule: delay must be positive and finite, got %f", delay))
	}
	if fn == nil {
		panic("Schedule: fn must not be nil")
	}
	s.Queue.Schedule(&Event{
		Time: s.Clock + delay,
		ID:   s.newEventID(),
		Run:  fn,
	})
}

// Run pops and executes events in due-time order until the next event would
// fall past `until` or the queue drains, then parks the clock at `until`.
// Events due exactly at `until` still fire. Processes left suspended past the
// bound are abandoned, not an error: simulation end is an external time
// bound, never a process-internal decision.
func (s *Scheduler) Run(until float64) {
	if until < s.Clock {
		panic(fmt.Sprintf("Run: until %f precedes clock %f", until, s.Clock))
	}
	for s.Queue.Len() > 0 {
		next := s.Queue.Peek()
		if next.Time > until {
			break
		}
		ev := s.Queue.PopNext()

		// Clock monotonicity
		if ev.Time < s.Clock {
			panic(fmt.Sprintf("Clock went backwards: %f < %f", ev.Time, s.Clock))
		}
		s.Clock = ev.Time

		logrus.Debugf("[t=%.3f] resuming event %d", s.Clock, ev.ID)
		ev.Run()
	}
	s.Clock = until
}
