// Package debounce runs an action once input has been quiet for a delay.
// Every new call cancels and supersedes the pending one.
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle of a scheduled action.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The real implementation wraps time.AfterFunc; tests
// use ManualScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the wall clock.
var RealScheduler Scheduler = realScheduler{}

// Debouncer delays an action until no new call arrived for the configured delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	sched   Scheduler
	pending Timer
	seq     uint64
	running sync.WaitGroup
}

// New creates a debouncer. A nil scheduler means the wall clock.
func New(delay time.Duration, sched Scheduler) *Debouncer {
	if sched == nil {
		sched = RealScheduler
	}
	return &Debouncer{delay: delay, sched: sched}
}

// Call schedules f, cancelling whatever was pending.
func (d *Debouncer) Call(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = d.sched.AfterFunc(d.delay, func() {
		// A timer that fired while being stopped must not run a stale action.
		d.mu.Lock()
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.running.Add(1)
		d.mu.Unlock()
		defer d.running.Done()
		f()
	})
}

// Cancel drops the pending action, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}

// Stop drops the pending action and reports whether there was one. When it
// returns false the action either never existed or has already started.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	superseded := d.pending != nil
	if superseded {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
	return superseded
}

// Wait blocks until actions that already started have returned. It must not be
// called from inside an action, nor concurrently with Call.
func (d *Debouncer) Wait() {
	d.running.Wait()
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
