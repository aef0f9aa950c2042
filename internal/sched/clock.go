package sched

import (
	"sync"
	"time"
)

// Clock is the scheduler's time source. Implementations must be monotonic:
// successive Now calls never go backwards.
type Clock interface {
	Now() time.Time
}

// wallClock reads the system clock. time.Time carries a monotonic reading on
// all supported platforms, so comparisons are immune to wall-clock jumps.
type wallClock struct{}

// NewClock returns the default system-backed Clock.
func NewClock() Clock { return wallClock{} }

func (wallClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to. It exists for tests
// and simulations that need exact control over expiration and promotion
// timing.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a ManualClock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current frozen instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative d is ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set moves the clock to t if t is not in the past.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	if t.After(c.now) {
		c.now = t
	}
	c.mu.Unlock()
}
