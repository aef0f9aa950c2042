package sched

import "time"

// executionWindow is the per-invocation slice budget of the work loop. It is
// created when the host invokes the loop and discarded when the invocation
// ends.
type executionWindow struct {
	deadline time.Time
}

// yieldPolicy decides, after each unit of work, whether the loop keeps going
// or hands control back to the host.
type yieldPolicy struct {
	frameInterval time.Duration
}

// shouldYield never returns true before the window deadline: the deadline is
// a minimum work budget, not a cap. Past the deadline it yields only when
// there is a competing reason to (pending input or an outstanding paint
// request); with no competing signal the window is extended by one frame
// interval and work continues.
func (p yieldPolicy) shouldYield(win *executionWindow, now time.Time, inputPending, paintPending bool) bool {
	if now.Before(win.deadline) {
		return false
	}
	if inputPending || paintPending {
		return true
	}
	win.deadline = now.Add(p.frameInterval)
	return false
}
