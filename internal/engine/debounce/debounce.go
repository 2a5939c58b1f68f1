// Package debounce coalesces bursts of edits into a single "settled"
// notification fired after a quiet interval.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet interval used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// State is a snapshot of the debouncer.
type State struct {
	// LastEdit is when Call was last invoked.
	LastEdit time.Time

	// Pending is true while a settle notification is scheduled.
	Pending bool
}

// Debouncer fires its callback once no Call has arrived for the delay.
//
// At most one notification is outstanding at any time; each Call cancels
// the previous one and schedules a new one. The callback runs without the
// internal lock held, so it may call back into the debouncer.
type Debouncer struct {
	mu       sync.Mutex
	clock    Clock
	delay    time.Duration
	timer    Timer
	pending  bool
	closed   bool
	seq      uint64 // invalidates callbacks of stopped timers
	lastEdit time.Time
	callback func()
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock sets the clock used for scheduling.
func WithClock(c Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithDelay sets the quiet interval. Non-positive values are ignored.
func WithDelay(delay time.Duration) Option {
	return func(d *Debouncer) {
		if delay > 0 {
			d.delay = delay
		}
	}
}

// New creates a debouncer that calls callback after the quiet interval.
func New(callback func(), opts ...Option) *Debouncer {
	d := &Debouncer{
		clock:    RealClock{},
		delay:    DefaultDelay,
		callback: callback,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Call records an edit and restarts the quiet interval.
// It is a no-op after Close.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.pending = true
	d.lastEdit = d.clock.Now()
	d.seq++
	current := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Only fire if this is still the latest schedule.
		if d.pending && !d.closed && d.seq == current && d.callback != nil {
			d.pending = false
			d.timer = nil
			cb := d.callback
			d.mu.Unlock()
			cb()
			return
		}
		d.mu.Unlock()
	})
}

// Flush fires the callback immediately if a notification is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++

	if d.pending && !d.closed && d.callback != nil {
		d.pending = false
		cb := d.callback
		d.mu.Unlock()
		cb()
		return
	}
	d.mu.Unlock()
}

// Cancel drops any pending notification.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancel()
}

func (d *Debouncer) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Close cancels any pending notification and disables the debouncer.
// A timer that is already running its callback will find the debouncer
// closed and do nothing.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancel()
	d.closed = true
}

// SetDelay changes the quiet interval for subsequent calls.
func (d *Debouncer) SetDelay(delay time.Duration) {
	if delay <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Delay returns the quiet interval.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// IsPending returns true if a notification is scheduled.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// State returns a snapshot of the debouncer.
func (d *Debouncer) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{LastEdit: d.lastEdit, Pending: d.pending}
}
