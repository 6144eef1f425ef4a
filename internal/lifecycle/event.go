package lifecycle

import (
	"strings"
	"time"
)

// EventType names one kind of execution event.
type EventType string

const (
	// EventValidationStarted marks the beginning of structural and
	// capability validation.
	EventValidationStarted EventType = "validation_started"
	// EventValidationSucceeded marks a job cleared for dispatch.
	EventValidationSucceeded EventType = "validation_succeeded"
	// EventExecutionStarted marks the first clip dispatch.
	EventExecutionStarted EventType = "execution_started"
	// EventClipDispatched, EventClipCompleted, and EventClipFailed record
	// per-clip facts. They carry the clip index and do not change job state
	// on their own; the adapter closes the job with a terminal event once
	// every clip is resolved.
	EventClipDispatched EventType = "clip_dispatched"
	EventClipCompleted  EventType = "clip_completed"
	EventClipFailed     EventType = "clip_failed"
	// EventJobCompleted, EventJobFailed, and EventJobCancelled are the
	// terminal facts.
	EventJobCompleted EventType = "job_completed"
	EventJobFailed    EventType = "job_failed"
	EventJobCancelled EventType = "job_cancelled"
)

var knownEventTypes = map[EventType]struct{}{
	EventValidationStarted:   {},
	EventValidationSucceeded: {},
	EventExecutionStarted:    {},
	EventClipDispatched:      {},
	EventClipCompleted:       {},
	EventClipFailed:          {},
	EventJobCompleted:        {},
	EventJobFailed:           {},
	EventJobCancelled:        {},
}

// ParseEventType converts a stored string into a known EventType.
func ParseEventType(value string) (EventType, bool) {
	normalized := EventType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := knownEventTypes[normalized]
	return normalized, ok
}

// NoClip is the ClipIndex value for events that are not about one clip.
const NoClip = -1

// Event is one immutable, timestamped execution fact. Seq is assigned by the
// event sink in insertion order and is unique per job log.
type Event struct {
	Seq       int64
	JobID     string
	Type      EventType
	ClipIndex int
	Detail    string
	CreatedAt time.Time
}
