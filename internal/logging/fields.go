package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldJobID is the standardized structured logging key for job identifiers.
	FieldJobID = "job_id"
	// FieldClipIndex is the standardized structured logging key for zero-based clip positions.
	FieldClipIndex = "clip_index"
	// FieldEngine is the standardized structured logging key for the resolved execution engine.
	FieldEngine = "engine"
	// FieldEventType tags log records with a machine-filterable event kind.
	FieldEventType = "event_type"
	// FieldFailureKind carries the classified clip failure type on error records.
	FieldFailureKind = "failure_kind"
	// FieldErrorHint suggests the operator's next step when an error is logged.
	FieldErrorHint = "error_hint"
	// FieldRunID correlates all records emitted during one dispatcher pass over a job.
	FieldRunID = "run_id"
)
