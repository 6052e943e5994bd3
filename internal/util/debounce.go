package util

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls: the function runs once, after the
// delay has elapsed with no further Call. Each Call replaces the pending
// function.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules fn to run after the quiet period, cancelling any
// previously scheduled function.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Throttler rate-limits calls: the first Call in every interval runs
// immediately, subsequent ones inside the interval are dropped.
type Throttler struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewThrottler creates a throttler with the given minimum interval.
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval}
}

// Call runs fn if the interval has elapsed since the last accepted call and
// reports whether it ran.
func (t *Throttler) Call(fn func()) bool {
	t.mu.Lock()

	now := time.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()

		return false
	}

	t.last = now
	t.mu.Unlock()

	fn()

	return true
}
