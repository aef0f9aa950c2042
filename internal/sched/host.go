package sched

import "time"

// HostTimer is a single cancelable wake-up registration obtained from the
// host. Stop reports whether the wake-up was cancelled before it fired.
type HostTimer interface {
	Stop() bool
}

// Host supplies the asynchronous primitives the scheduler needs from its
// environment. The scheduler owns at most one outstanding timer and one
// outstanding continuation at any time.
type Host interface {
	// RequestCallback invokes fn asynchronously, as soon as reasonably
	// possible after pending external events have had a chance to run. It
	// must never invoke fn synchronously from within RequestCallback.
	RequestCallback(fn func())

	// RequestTimer invokes fn once, after at least delay has elapsed.
	RequestTimer(fn func(), delay time.Duration) HostTimer

	// HasPendingInput is a best-effort signal that latency-sensitive input
	// is waiting; the yield policy uses it to decide whether spending more
	// of the current slice is justified.
	HasPendingInput() bool
}

// timerHost is the default Host, backed by the runtime timer machinery. It
// reports no pending input; headless environments have none, and embedders
// with a real input source supply their own Host.
type timerHost struct{}

// NewTimerHost returns the default runtime-backed Host.
func NewTimerHost() Host { return timerHost{} }

func (timerHost) RequestCallback(fn func()) {
	go fn()
}

func (timerHost) RequestTimer(fn func(), delay time.Duration) HostTimer {
	return stdTimer{t: time.AfterFunc(delay, fn)}
}

func (timerHost) HasPendingInput() bool { return false }

type stdTimer struct {
	t *time.Timer
}

func (s stdTimer) Stop() bool { return s.t.Stop() }
