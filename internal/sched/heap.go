package sched

import (
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// taskQueue is a binary min-heap of tasks ordered by a caller-chosen time
// key, with ties broken by id ascending so equal-urgency tasks pop in FIFO
// creation order. Cancelled tasks are not removed here; they stay in place
// and are discarded by the work loop when popped (lazy deletion).
type taskQueue struct {
	heap *binaryheap.Heap
}

// newTaskQueue builds a queue sorted by key(t), then by id.
func newTaskQueue(key func(*task) time.Time) *taskQueue {
	return &taskQueue{heap: binaryheap.NewWith(func(a, b any) int {
		ta, tb := a.(*task), b.(*task)
		ka, kb := key(ta), key(tb)
		switch {
		case ka.Before(kb):
			return -1
		case ka.After(kb):
			return 1
		case ta.id < tb.id:
			return -1
		case ta.id > tb.id:
			return 1
		default:
			return 0
		}
	})}
}

// newReadyQueue orders by expiration time: the most starved task pops first.
func newReadyQueue() *taskQueue {
	return newTaskQueue(func(t *task) time.Time { return t.expiration })
}

// newTimerQueue orders by start time: the soonest-due delayed task pops
// first.
func newTimerQueue() *taskQueue {
	return newTaskQueue(func(t *task) time.Time { return t.start })
}

func (q *taskQueue) push(t *task) {
	q.heap.Push(t)
}

func (q *taskQueue) peek() (*task, bool) {
	v, ok := q.heap.Peek()
	if !ok {
		return nil, false
	}
	return v.(*task), true
}

func (q *taskQueue) pop() (*task, bool) {
	v, ok := q.heap.Pop()
	if !ok {
		return nil, false
	}
	return v.(*task), true
}

func (q *taskQueue) len() int {
	return q.heap.Size()
}
