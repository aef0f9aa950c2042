package sched

import "errors"

var (
	// ErrNegativeDelay is returned by Schedule when the requested delay is
	// negative.
	ErrNegativeDelay = errors.New("sched: negative delay")

	// ErrInvalidPriority is returned by Schedule when the priority is not one
	// of the five defined levels.
	ErrInvalidPriority = errors.New("sched: invalid priority")

	// ErrNilCallback is returned by Schedule when no callback is supplied.
	ErrNilCallback = errors.New("sched: nil callback")

	// ErrSchedulerClosed is returned by Schedule after Close.
	ErrSchedulerClosed = errors.New("sched: scheduler closed")
)
