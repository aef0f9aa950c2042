// Package sched implements a cooperative, priority-based task scheduler with
// time-slicing.
//
// Tasks carry one of five priority levels and an optional delay. All work
// runs on a single logical thread: the work loop pops the most urgent ready
// task, executes it to its own checkpoint, and after every task asks the
// yield policy whether to hand control back to the host so that pending
// input or rendering is never starved for more than a few milliseconds.
//
// Ordering is by expiration time (creation time plus a priority-derived
// timeout), not by static rank. Priority determines how fast a pending
// task's urgency grows, which is what prevents a stream of high-priority
// arrivals from starving lower-priority work forever.
package sched

import (
	"sync"
	"time"
)

// loopState tracks where the work loop is in its lifecycle.
type loopState int

const (
	// stateIdle: no host continuation armed, both queues dormant.
	stateIdle loopState = iota
	// stateScheduled: a continuation has been requested from the host but
	// has not run yet.
	stateScheduled
	// stateRunning: currently executing inside a work-loop invocation.
	stateRunning
)

// Scheduler multiplexes many logical tasks onto one thread of cooperative
// execution. Schedule and Cancel are safe to call from any goroutine; the
// work loop itself runs one invocation at a time via the host's continuation
// primitive.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	host   Host
	logger Logger

	ready  *taskQueue // keyed by expiration time
	timers *taskQueue // keyed by start time
	tasks  map[TaskID]*task
	nextID TaskID

	state      loopState
	policy     yieldPolicy
	timeouts   timeoutTable
	win        *executionWindow // non-nil only while stateRunning
	needsPaint bool
	closed     bool

	// At most one host wake-up registration is live at a time, armed for the
	// earliest pending start time. timerGen invalidates fires from stale
	// registrations that could not be stopped in time.
	hostTimer   HostTimer
	hostTimerAt time.Time
	timerGen    uint64

	statusCh chan StatusEvent
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock, typically with a ManualClock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithHost replaces the default runtime-backed host adapter.
func WithHost(h Host) Option {
	return func(s *Scheduler) {
		if h != nil {
			s.host = h
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scheduler from the given configuration.
func New(cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    NewClock(),
		host:     NewTimerHost(),
		logger:   defaultLogger,
		ready:    newReadyQueue(),
		timers:   newTimerQueue(),
		tasks:    make(map[TaskID]*task),
		policy:   yieldPolicy{frameInterval: time.Duration(cfg.FrameIntervalMS) * time.Millisecond},
		timeouts: newTimeoutTable(cfg),
		statusCh: make(chan StatusEvent, cfg.EventBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatusChannel exposes a read-only stream of scheduler events (optional
// consumers). The channel is closed by Close.
func (s *Scheduler) StatusChannel() <-chan StatusEvent { return s.statusCh }

// scheduleOptions holds per-call Schedule configuration.
type scheduleOptions struct {
	delay time.Duration
}

// ScheduleOption configures a single Schedule call.
type ScheduleOption func(*scheduleOptions)

// WithDelay defers the task's start time by d. The task sits in the timer
// queue until d elapses, then competes in the ready queue like any other.
func WithDelay(d time.Duration) ScheduleOption {
	return func(o *scheduleOptions) {
		o.delay = d
	}
}

// Schedule enqueues cb at the given priority and returns a handle for
// cancellation. The callback is never executed synchronously, not even for
// Immediate priority with zero delay. A negative delay, an unknown priority
// level, or a nil callback fails fast without enqueueing anything.
func (s *Scheduler) Schedule(p Priority, cb Callback, opts ...ScheduleOption) (TaskHandle, error) {
	if !p.IsValid() {
		return TaskHandle{}, ErrInvalidPriority
	}
	if cb == nil {
		return TaskHandle{}, ErrNilCallback
	}
	var so scheduleOptions
	for _, opt := range opts {
		opt(&so)
	}
	if so.delay < 0 {
		return TaskHandle{}, ErrNegativeDelay
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return TaskHandle{}, ErrSchedulerClosed
	}

	now := s.clock.Now()
	s.nextID++
	t := &task{
		id:       s.nextID,
		priority: p,
		callback: cb,
		created:  now,
		start:    now.Add(so.delay),
	}
	t.expiration = t.start.Add(s.timeouts[p])
	s.tasks[t.id] = t

	if t.start.After(now) {
		s.timers.push(t)
		s.armHostTimerLocked(now)
	} else {
		s.ready.push(t)
		s.ensureScheduledLocked()
	}
	s.emitLocked(StatusEnqueue, t)
	s.mu.Unlock()

	return TaskHandle{id: t.id}, nil
}

// Cancel marks the referenced task as cancelled. It never fails and is
// idempotent: cancelling an already-executed, already-cancelled, or unknown
// handle is a no-op. The task is not removed from its heap here; it is
// discarded, unexecuted, when it is next popped.
func (s *Scheduler) Cancel(h TaskHandle) {
	s.mu.Lock()
	if t, ok := s.tasks[h.id]; ok {
		t.cancelled = true
	}
	s.mu.Unlock()
}

// ShouldYield lets a running callback ask whether it should checkpoint and
// return a continuation instead of continuing. Outside a work-loop
// invocation it always reports false.
func (s *Scheduler) ShouldYield() bool {
	s.mu.Lock()
	win := s.win
	paint := s.needsPaint
	s.mu.Unlock()
	if win == nil {
		return false
	}
	return s.policy.shouldYield(win, s.clock.Now(), s.host.HasPendingInput(), paint)
}

// Now exposes the scheduler's clock so callbacks can make timing decisions
// consistent with the scheduler's own.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// RequestPaint records that a visual update is due. The next post-deadline
// yield check treats it as a reason to hand control back to the host.
func (s *Scheduler) RequestPaint() {
	s.mu.Lock()
	s.needsPaint = true
	s.mu.Unlock()
}

// Pending returns the number of tasks currently held across both queues,
// including cancelled entries not yet discarded.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready.len() + s.timers.len()
}

// Close stops the scheduler: the armed host timer is disarmed, the status
// channel is closed, and further Schedule calls fail with
// ErrSchedulerClosed. Close does not interrupt a callback that is already
// executing; the work loop drains no further tasks once it observes the
// closed flag.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.hostTimer != nil {
		s.hostTimer.Stop()
		s.hostTimer = nil
	}
	close(s.statusCh)
}

// ensureScheduledLocked arms a host continuation when ready work exists and
// none is armed. Idle -> Scheduled.
func (s *Scheduler) ensureScheduledLocked() {
	if s.state != stateIdle || s.closed || s.ready.len() == 0 {
		return
	}
	s.state = stateScheduled
	s.host.RequestCallback(s.flushWork)
}

// flushWork is the continuation handed to the host. One invocation is one
// execution window: it drains ready work until the queue empties or the
// yield policy says stop, then either goes idle or immediately re-requests a
// continuation so no ready work is ever silently dropped.
//
// A panicking callback propagates out of flushWork to the host's invocation
// boundary. The deferred transition still runs, so the queues stay valid and
// the scheduler resumes on its next natural trigger.
func (s *Scheduler) flushWork() {
	s.mu.Lock()
	if s.state != stateScheduled || s.closed {
		if s.closed {
			s.state = stateIdle
		}
		s.mu.Unlock()
		return
	}
	s.state = stateRunning
	win := &executionWindow{deadline: s.clock.Now().Add(s.policy.frameInterval)}
	s.win = win
	s.mu.Unlock()

	completed := false
	defer func() {
		s.mu.Lock()
		s.win = nil
		switch {
		case s.closed:
			s.state = stateIdle
		case !completed:
			// The current task panicked. Its record is already gone, so the
			// queues are structurally valid; go idle and let the next
			// schedule or timer fire resume the loop.
			s.state = stateIdle
			s.logger.Printf("sched: work loop aborted by panic, %d task(s) still ready", s.ready.len())
		case s.ready.len() > 0:
			s.state = stateScheduled
			s.host.RequestCallback(s.flushWork)
		default:
			s.state = stateIdle
			s.emitLocked(StatusIdle, nil)
		}
		s.mu.Unlock()
	}()

	s.workLoop(win)
	completed = true
}

// workLoop drains the ready queue for one execution window.
func (s *Scheduler) workLoop(win *executionWindow) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		now := s.clock.Now()
		s.promoteDueLocked(now)

		t, ok := s.ready.pop()
		if !ok {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, t.id)
		if t.cancelled {
			// Lazy deletion: discarded without side effects, no yield check.
			s.emitLocked(StatusDiscard, t)
			s.mu.Unlock()
			continue
		}
		s.emitLocked(StatusDispatch, t)
		s.mu.Unlock()

		// Runs unlocked and uncaught: a panic here is the callback's own
		// failure and must surface at the host boundary, not be masked.
		next := t.callback()

		s.mu.Lock()
		now = s.clock.Now()
		if next != nil {
			// The task checkpointed itself. Re-enqueue the continuation
			// under the same id and priority with a fresh creation time, so
			// its urgency clock restarts.
			ct := &task{
				id:       t.id,
				priority: t.priority,
				callback: next,
				created:  now,
				start:    now,
			}
			ct.expiration = ct.start.Add(s.timeouts[ct.priority])
			s.tasks[ct.id] = ct
			s.ready.push(ct)
			s.emitLocked(StatusContinue, ct)
		} else {
			s.emitLocked(StatusFinish, t)
		}

		paint := s.needsPaint
		s.mu.Unlock()

		if s.policy.shouldYield(win, now, s.host.HasPendingInput(), paint) {
			s.mu.Lock()
			s.needsPaint = false
			s.emitLocked(StatusYield, t)
			s.mu.Unlock()
			return
		}
	}
}

// emitLocked publishes a status event without blocking. t may be nil for
// events not tied to a task.
func (s *Scheduler) emitLocked(kind StatusKind, t *task) {
	if s.closed {
		return
	}
	ev := StatusEvent{
		Time:    s.clock.Now(),
		Kind:    kind,
		Pending: s.ready.len(),
	}
	if t != nil {
		ev.TaskID = t.id
		ev.Priority = t.priority
	}
	select {
	case s.statusCh <- ev:
	default:
		s.logger.Printf("sched: dropped status event %s", kind)
	}
}
