package sched

import "time"

// Priority classifies how quickly a pending task becomes urgent. It selects
// the timeout added to a task's start time to form its expiration time; the
// ready queue sorts by expiration time, so a smaller timeout means urgency
// grows faster. Priority is not a static rank: a long-waiting Normal task
// overtakes a freshly scheduled UserBlocking task once its deadline is
// closer.
type Priority int

const (
	// Immediate tasks are created already expired, so they sort ahead of
	// everything scheduled before them.
	Immediate Priority = iota + 1
	// UserBlocking tasks are direct responses to user interaction.
	UserBlocking
	// Normal is the default for most application work.
	Normal
	// Low tasks can be deferred noticeably.
	Low
	// Idle tasks run only when nothing else is pending.
	Idle
)

// immediateTimeout makes Immediate tasks expire before their own creation
// instant, guaranteeing they sort ahead of every already-pending task.
const immediateTimeout = -1 * time.Millisecond

// idleTimeout stands in for "never expires". Large enough that an Idle task
// only surfaces once every other queue entry is gone, small enough that
// time.Time arithmetic stays well away from overflow.
const idleTimeout = 1 << 61 * time.Nanosecond

// IsValid reports whether p is one of the five defined levels.
func (p Priority) IsValid() bool {
	return p >= Immediate && p <= Idle
}

func (p Priority) String() string {
	switch p {
	case Immediate:
		return "immediate"
	case UserBlocking:
		return "user-blocking"
	case Normal:
		return "normal"
	case Low:
		return "low"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// timeoutTable maps each priority level to its timeout duration.
// Immediate and Idle are fixed; the middle three come from Config.
type timeoutTable [Idle + 1]time.Duration

func newTimeoutTable(cfg Config) timeoutTable {
	var t timeoutTable
	t[Immediate] = immediateTimeout
	t[UserBlocking] = time.Duration(cfg.UserBlockingTimeoutMS) * time.Millisecond
	t[Normal] = time.Duration(cfg.NormalTimeoutMS) * time.Millisecond
	t[Low] = time.Duration(cfg.LowTimeoutMS) * time.Millisecond
	t[Idle] = idleTimeout
	return t
}
