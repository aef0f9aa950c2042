package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayedTaskWaitsInTimerQueue(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	_, err := s.Schedule(Normal, func() Callback { return nil }, WithDelay(100*time.Millisecond))
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Zero(t, s.ready.len())
	assert.Equal(t, 1, s.timers.len())
}

func TestPromoteDueTasks(t *testing.T) {
	s, _, clock := newTestScheduler(t)

	ran := false
	_, err := s.Schedule(Normal, func() Callback {
		ran = true
		return nil
	}, WithDelay(100*time.Millisecond))
	require.NoError(t, err)

	// Not due yet: promotion is a no-op.
	s.promoteDue()
	s.mu.Lock()
	require.Zero(t, s.ready.len())
	s.mu.Unlock()

	// Past the start time the task moves to the ready queue and is the next
	// pop.
	clock.Advance(101 * time.Millisecond)
	s.promoteDue()
	s.mu.Lock()
	require.Equal(t, 1, s.ready.len())
	next, ok := s.ready.peek()
	require.True(t, ok)
	require.False(t, next.cancelled)
	s.mu.Unlock()

	assert.False(t, ran, "promotion alone must not execute the callback")
}

func TestPromoteDueEmptyIsNoop(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.promoteDue()
	assert.Zero(t, s.Pending())
}

func TestSingleArmedHostTimer(t *testing.T) {
	s, host, _ := newTestScheduler(t)

	work := func() Callback { return nil }

	_, err := s.Schedule(Normal, work, WithDelay(100*time.Millisecond))
	require.NoError(t, err)
	active := host.activeTimers()
	require.Len(t, active, 1)
	assert.Equal(t, 100*time.Millisecond, active[0].delay)

	// A later-due delayed task leaves the registration alone.
	_, err = s.Schedule(Normal, work, WithDelay(200*time.Millisecond))
	require.NoError(t, err)
	require.Len(t, host.activeTimers(), 1)
	assert.Equal(t, 100*time.Millisecond, host.activeTimers()[0].delay)

	// An earlier-due one rearms to the earlier start time.
	_, err = s.Schedule(Normal, work, WithDelay(50*time.Millisecond))
	require.NoError(t, err)
	active = host.activeTimers()
	require.Len(t, active, 1)
	assert.Equal(t, 50*time.Millisecond, active[0].delay)
}

func TestWakeTimerPromotesAndResumes(t *testing.T) {
	s, host, clock := newTestScheduler(t)

	var ran []string
	_, err := s.Schedule(Normal, func() Callback {
		ran = append(ran, "delayed")
		return nil
	}, WithDelay(100*time.Millisecond))
	require.NoError(t, err)

	clock.Advance(100 * time.Millisecond)
	host.fireTimers()
	host.run()

	assert.Equal(t, []string{"delayed"}, ran)
	assert.Zero(t, s.Pending())

	// The lone registration was consumed and nothing rearmed it.
	assert.Empty(t, host.activeTimers())
}

func TestWakeTimerRearmsForRemainingDelayed(t *testing.T) {
	s, host, clock := newTestScheduler(t)

	work := func() Callback { return nil }
	_, err := s.Schedule(Normal, work, WithDelay(100*time.Millisecond))
	require.NoError(t, err)
	_, err = s.Schedule(Normal, work, WithDelay(300*time.Millisecond))
	require.NoError(t, err)

	clock.Advance(100 * time.Millisecond)
	host.fireTimers()
	host.run()

	// One task promoted and executed, the other still pending with a fresh
	// registration armed for its remaining delay.
	active := host.activeTimers()
	require.Len(t, active, 1)
	assert.Equal(t, 200*time.Millisecond, active[0].delay)
	assert.Equal(t, 1, s.Pending())
}

func TestCancelledDelayedTaskDiscardedOnPromotion(t *testing.T) {
	s, host, clock := newTestScheduler(t)

	ran := false
	h, err := s.Schedule(Normal, func() Callback {
		ran = true
		return nil
	}, WithDelay(50*time.Millisecond))
	require.NoError(t, err)

	s.Cancel(h)
	clock.Advance(51 * time.Millisecond)
	host.fireTimers()
	host.run()

	assert.False(t, ran)
	assert.Zero(t, s.Pending())
}
