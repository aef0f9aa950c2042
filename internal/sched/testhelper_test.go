package sched

import (
	"sync"
	"testing"
	"time"
)

// stubHost records continuation and timer requests so tests can drive the
// work loop deterministically.
type stubHost struct {
	mu        sync.Mutex
	callbacks []func()
	timers    []*stubTimer
	input     bool
}

func newStubHost() *stubHost { return &stubHost{} }

func (h *stubHost) RequestCallback(fn func()) {
	h.mu.Lock()
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

func (h *stubHost) RequestTimer(fn func(), d time.Duration) HostTimer {
	t := &stubTimer{fn: fn, delay: d}
	h.mu.Lock()
	h.timers = append(h.timers, t)
	h.mu.Unlock()
	return t
}

func (h *stubHost) HasPendingInput() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.input
}

func (h *stubHost) setPendingInput(v bool) {
	h.mu.Lock()
	h.input = v
	h.mu.Unlock()
}

// run executes queued continuations until none remain and returns how many
// work-loop invocations took place.
func (h *stubHost) run() int {
	n := 0
	for {
		h.mu.Lock()
		if len(h.callbacks) == 0 {
			h.mu.Unlock()
			return n
		}
		fn := h.callbacks[0]
		h.callbacks = h.callbacks[1:]
		h.mu.Unlock()
		fn()
		n++
	}
}

// activeTimers returns the armed, unstopped timer registrations.
func (h *stubHost) activeTimers() []*stubTimer {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*stubTimer
	for _, t := range h.timers {
		if !t.isStopped() {
			out = append(out, t)
		}
	}
	return out
}

// fireTimers invokes every armed timer once, as if its delay had elapsed.
func (h *stubHost) fireTimers() {
	for _, t := range h.activeTimers() {
		t.fire()
	}
}

type stubTimer struct {
	mu      sync.Mutex
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *stubTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (t *stubTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped || t.fired
}

func (t *stubTimer) fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestScheduler wires a scheduler to a stub host and a manual clock
// frozen at testEpoch.
func newTestScheduler(t *testing.T) (*Scheduler, *stubHost, *ManualClock) {
	t.Helper()
	host := newStubHost()
	clock := NewManualClock(testEpoch)
	s := New(Load(""), WithHost(host), WithClock(clock))
	t.Cleanup(s.Close)
	return s, host, clock
}

// drainEvents collects everything currently buffered on the status channel.
func drainEvents(s *Scheduler) []StatusEvent {
	var out []StatusEvent
	for {
		select {
		case ev, ok := <-s.StatusChannel():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}
