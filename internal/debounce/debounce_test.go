package debounce

import (
	"testing"
	"time"
)

func TestDebouncerRunsLatestOnly(t *testing.T) {
	sched := NewManualScheduler()
	d := New(500*time.Millisecond, sched)

	var ran []string
	d.Call(func() { ran = append(ran, "a") })
	sched.Advance(200 * time.Millisecond)
	d.Call(func() { ran = append(ran, "ab") })
	sched.Advance(400 * time.Millisecond)
	if len(ran) != 0 {
		t.Fatalf("nothing should run before the quiet period, got %v", ran)
	}
	if !d.Pending() {
		t.Fatalf("expected a pending action")
	}
	sched.Advance(100 * time.Millisecond)
	if len(ran) != 1 || ran[0] != "ab" {
		t.Fatalf("expected only the latest action, got %v", ran)
	}
	if d.Pending() {
		t.Fatalf("nothing should be pending after firing")
	}
	if sched.Scheduled() != 0 {
		t.Fatalf("superseded timers must be stopped, %d left", sched.Scheduled())
	}
}

func TestDebouncerCancel(t *testing.T) {
	sched := NewManualScheduler()
	d := New(time.Second, sched)
	fired := false
	d.Call(func() { fired = true })
	d.Cancel()
	sched.Advance(2 * time.Second)
	if fired {
		t.Fatalf("cancelled action ran")
	}
}

func TestDebouncerRealClock(t *testing.T) {
	d := New(10*time.Millisecond, nil)
	done := make(chan string, 2)
	d.Call(func() { done <- "first" })
	d.Call(func() { done <- "second" })
	select {
	case got := <-done:
		if got != "second" {
			t.Fatalf("got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced action never ran")
	}
}

func TestDebouncerStop(t *testing.T) {
	sched := NewManualScheduler()
	d := New(time.Second, sched)

	if d.Stop() {
		t.Fatalf("Stop with nothing pending reported a superseded action")
	}

	fired := false
	d.Call(func() { fired = true })
	if !d.Stop() {
		t.Fatalf("Stop should report the pending action")
	}
	if d.Stop() {
		t.Fatalf("second Stop has nothing left to supersede")
	}
	sched.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped action ran")
	}

	d.Call(func() { fired = true })
	sched.Advance(time.Second)
	if !fired || d.Stop() {
		t.Fatalf("fired=%v; Stop after firing must report false", fired)
	}
}

func TestDebouncerWaitForRunningAction(t *testing.T) {
	d := New(time.Millisecond, nil)
	started := make(chan struct{})
	release := make(chan struct{})
	d.Call(func() {
		close(started)
		<-release
	})

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("action never started")
	}
	if d.Stop() {
		t.Fatalf("an action that already started cannot be superseded")
	}

	waited := make(chan struct{})
	go func() {
		d.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		t.Fatalf("Wait returned while the action was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatalf("Wait never returned")
	}
}
