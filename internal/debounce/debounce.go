// Package debounce coalesces bursts of triggers into a single call.
//
// A Debouncer runs only the most recently triggered function, and only once
// the trigger stream has been quiet for the configured window. Every new
// trigger cancels the pending timer; a generation counter guards against a
// timer that already fired but has not yet taken the lock.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence window used when New is given zero.
const DefaultWindow = 250 * time.Millisecond

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler schedules f to run after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// Debouncer delays calls until triggers stop arriving for Window.
type Debouncer struct {
	window    time.Duration
	scheduler Scheduler

	mu      sync.Mutex
	gen     uint64
	timer   Timer
	pending func()
	stopped bool
}

// New creates a Debouncer. A nil scheduler uses RealScheduler.
func New(window time.Duration, s Scheduler) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if s == nil {
		s = RealScheduler
	}
	return &Debouncer{window: window, scheduler: s}
}

// Window returns the quiescence window.
func (d *Debouncer) Window() time.Duration { return d.window }

// Trigger schedules fn, replacing any call still pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.scheduler.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending call now, if any. Returns whether one ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if fn == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
	return true
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending call. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = nil
	d.timer = nil
	d.stopped = true
}
