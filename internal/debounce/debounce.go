// Package debounce coalesces bursts of signals into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// Clock schedules callbacks. SystemClock uses real time; ManualClock is driven
// by tests.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Stopper
}

// SystemClock schedules with time.AfterFunc.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, fn func()) Stopper {
	return time.AfterFunc(d, fn)
}

// Timer runs fn once after interval has passed without another Schedule call.
// Each Schedule inside the quiet window replaces the pending run.
type Timer struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	fn       func()
	pending  Stopper
	gen      uint64
}

// New creates a Timer. A nil clock means SystemClock.
func New(fn func(), interval time.Duration, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{clock: clock, interval: interval, fn: fn}
}

// Schedule (re)starts the quiet window.
func (t *Timer) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		t.pending.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = t.clock.AfterFunc(t.interval, func() {
		t.mu.Lock()
		// A stale callback may still fire if Stop lost the race.
		if gen != t.gen || t.pending == nil {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.mu.Unlock()
		t.fn()
	})
}

// Cancel drops the pending run, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.gen++
}

// Pending reports whether a run is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// Interval returns the quiet window.
func (t *Timer) Interval() time.Duration {
	return t.interval
}
