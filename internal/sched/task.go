package sched

import "time"

// TaskID uniquely identifies a task in the scheduler. IDs are assigned
// monotonically and never reused during the process lifetime; they double as
// the FIFO tie-breaker for tasks with equal sort keys.
type TaskID uint64

// Callback is one cooperative unit of work. Returning nil means the task is
// finished. Returning a non-nil Callback means the task checkpointed itself:
// the returned continuation is re-enqueued with the same id and priority and
// a fresh creation time, to be resumed on a later slice.
//
// A callback must not block; it runs on the scheduler's single logical
// thread, so blocking it stalls every other task.
type Callback func() Callback

// task is one schedulable unit. All fields except cancelled are fixed at
// creation; cancelled is flipped by Cancel under the scheduler mutex and the
// record is dropped lazily when it is next popped.
type task struct {
	id         TaskID
	priority   Priority
	callback   Callback
	created    time.Time
	start      time.Time // created + requested delay
	expiration time.Time // start + priority timeout; the ready-queue sort key
	cancelled  bool
}

// TaskHandle is an opaque reference to a scheduled task, used for
// cancellation. The zero value references no task.
type TaskHandle struct {
	id TaskID
}

// ID returns the stable identifier of the referenced task.
func (h TaskHandle) ID() TaskID { return h.id }
