package sched

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// StatusKind represents the type of scheduler event.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusEnqueue
	StatusPromote
	StatusDispatch
	StatusContinue
	StatusDiscard
	StatusYield
	StatusFinish
)

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusPromote:
		return "Promoted"
	case StatusDispatch:
		return "Dispatch"
	case StatusContinue:
		return "Continue"
	case StatusDiscard:
		return "Discard"
	case StatusYield:
		return "Yield"
	case StatusFinish:
		return "Finish"
	default:
		return "Unknown"
	}
}

// StatusEvent is emitted on key scheduler actions. Emission is non-blocking:
// if no consumer keeps up, events are dropped rather than stalling the work
// loop.
type StatusEvent struct {
	Time     time.Time
	Kind     StatusKind
	TaskID   TaskID
	Priority Priority
	Pending  int // ready-queue depth right after the action
}

// CSVTrace appends status events to a CSV file, one row per event.
type CSVTrace struct {
	f *os.File
	w *csv.Writer
}

// NewCSVTrace opens path for writing and emits the header row.
func NewCSVTrace(path string) (*CSVTrace, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	w.Write([]string{"timestamp", "event", "task_id", "priority", "pending"})
	w.Flush()
	return &CSVTrace{f: f, w: w}, nil
}

// Consume drains ch until it is closed, writing one row per event. Run it on
// its own goroutine.
func (t *CSVTrace) Consume(ch <-chan StatusEvent) {
	for ev := range ch {
		t.w.Write([]string{
			ev.Time.Format(time.RFC3339Nano),
			ev.Kind.String(),
			strconv.FormatUint(uint64(ev.TaskID), 10),
			ev.Priority.String(),
			strconv.Itoa(ev.Pending),
		})
		t.w.Flush()
	}
}

// Close flushes and closes the underlying file.
func (t *CSVTrace) Close() error {
	t.w.Flush()
	return t.f.Close()
}
