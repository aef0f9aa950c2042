// Package job provides sample cooperative workloads for the scheduler demo
// and tests.
package job

import (
	"time"

	"coopsched/internal/sched"
)

// Chunked returns a workload split into n chunks. Each invocation processes
// chunks until shouldYield reports true, then checkpoints by returning
// itself as a continuation; the scheduler resumes it on a later slice. A nil
// shouldYield runs all chunks in one invocation.
func Chunked(n int, fn func(i int), shouldYield func() bool) sched.Callback {
	i := 0
	var step sched.Callback
	step = func() sched.Callback {
		for i < n {
			fn(i)
			i++
			if i < n && shouldYield != nil && shouldYield() {
				return step
			}
		}
		return nil
	}
	return step
}

// Busy returns a workload that spins for roughly d and finishes. It stands
// in for a fixed-cost unit of work; keep d well under the frame interval or
// it will hold the whole slice.
func Busy(d time.Duration) sched.Callback {
	return func() sched.Callback {
		end := time.Now().Add(d)
		for time.Now().Before(end) {
		}
		return nil
	}
}
