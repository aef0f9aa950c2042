package sched

import "time"

// The timer subsystem moves delayed tasks from the timer queue into the
// ready queue once their start time elapses. Promotion happens
// opportunistically before each work-loop batch and via a single host-level
// wake-up armed for the earliest pending start time.

// promoteDueLocked pops every timer-queue entry whose start time has
// elapsed and pushes it into the ready queue. Cancelled entries are
// discarded on the way. No-op when the timer queue is empty.
func (s *Scheduler) promoteDueLocked(now time.Time) {
	for {
		t, ok := s.timers.peek()
		if !ok || t.start.After(now) {
			return
		}
		s.timers.pop()
		if t.cancelled {
			delete(s.tasks, t.id)
			s.emitLocked(StatusDiscard, t)
			continue
		}
		s.ready.push(t)
		s.emitLocked(StatusPromote, t)
	}
}

// armHostTimerLocked keeps at most one live host wake-up registration,
// always armed for the earliest pending start time. Scheduling a delayed
// task that is due sooner than the current registration rearms it; a later
// one leaves the registration alone.
func (s *Scheduler) armHostTimerLocked(now time.Time) {
	next, ok := s.timers.peek()
	if !ok {
		if s.hostTimer != nil {
			s.hostTimer.Stop()
			s.hostTimer = nil
			s.timerGen++
		}
		return
	}
	if s.hostTimer != nil {
		if !next.start.Before(s.hostTimerAt) {
			return
		}
		s.hostTimer.Stop()
	}
	// Bumping the generation orphans any stopped registration that managed
	// to fire anyway; its callback sees a stale generation and does nothing.
	s.timerGen++
	gen := s.timerGen
	s.hostTimerAt = next.start
	s.hostTimer = s.host.RequestTimer(func() { s.onWakeTimer(gen) }, next.start.Sub(now))
}

// onWakeTimer is the host timer callback: promote whatever came due, rearm
// for the next pending start time, and kick the work loop if promotion
// produced ready work.
func (s *Scheduler) onWakeTimer(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.timerGen {
		return
	}
	s.hostTimer = nil
	now := s.clock.Now()
	s.promoteDueLocked(now)
	s.armHostTimerLocked(now)
	s.ensureScheduledLocked()
}

// promoteDue is the unlocked entry point used by tests to drive promotion
// explicitly against a manual clock.
func (s *Scheduler) promoteDue() {
	s.mu.Lock()
	s.promoteDueLocked(s.clock.Now())
	s.mu.Unlock()
}
