// Package timer implements the cooperative frame-synchronous scheduler.
//
// The host drives the scheduler by calling Tick once per frame with the
// elapsed delta. Each registered timer counts its remaining time down, fires
// when it reaches zero, and resets to its full interval (fire-then-reset).
// There is no preemption: callbacks run to completion inside Tick, and
// cancellation is simply removing the timer's id from the registry.
package timer

import "sort"

// Callback is invoked when a timer fires.
type Callback func()

type entry struct {
	interval  float64
	remaining float64
	fn        Callback
}

// Scheduler holds the registered timers. It is single-owner state; the core
// runs frame-synchronously and never ticks concurrently.
type Scheduler struct {
	timers map[string]*entry
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[string]*entry)}
}

// Register adds a recurring timer under id, replacing any previous timer with
// the same id. Intervals are in seconds; non-positive intervals are ignored.
func (s *Scheduler) Register(id string, interval float64, fn Callback) {
	if interval <= 0 || fn == nil {
		return
	}
	s.timers[id] = &entry{interval: interval, remaining: interval, fn: fn}
}

// Cancel removes the timer with the given id. Cancelling an unknown id is a
// no-op. A timer cancelled from inside a callback will not fire again.
func (s *Scheduler) Cancel(id string) {
	delete(s.timers, id)
}

// Active reports whether a timer with the given id is registered.
func (s *Scheduler) Active(id string) bool {
	_, ok := s.timers[id]
	return ok
}

// Tick advances all timers by elapsed seconds. Timers whose remaining time
// reaches zero fire once and reset to their interval. Fire order is sorted by
// id for determinism.
func (s *Scheduler) Tick(elapsed float64) {
	if elapsed <= 0 || len(s.timers) == 0 {
		return
	}

	due := make([]string, 0, len(s.timers))
	for id, e := range s.timers {
		e.remaining -= elapsed
		if e.remaining <= 0 {
			e.remaining = e.interval
			due = append(due, id)
		}
	}
	sort.Strings(due)

	for _, id := range due {
		// A callback may have cancelled a later due timer.
		e, ok := s.timers[id]
		if !ok {
			continue
		}
		e.fn()
	}
}
