package execution

import (
	"encoding/json"
	"fmt"
	"time"

	"shuttle/internal/capability"
	"shuttle/internal/failure"
	"shuttle/internal/policy"
)

// Validation stages recorded on results. Failures always name the stage they
// occurred at; "pre-job" failures carry no engine metadata because no engine
// was ever chosen.
const (
	StageStructural = "structural"
	StagePreJob     = "pre-job"
	StagePolicy     = "policy"
	StageDispatch   = "dispatch"
	StageVerify     = "verify"
)

// ClipResult is the immutable per-clip outcome. Engine, policy, and failure
// metadata are mandatory; a clip result that cannot say what ran and why it
// ended the way it did is a bug, not an option.
type ClipResult struct {
	ClipIndex       int               `json:"clip_index"`
	Engine          capability.Engine `json:"engine,omitempty"`
	Policy          policy.ClipPolicy `json:"policy"`
	FailureKind     failure.Kind      `json:"failure_kind,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	RawSignal       failure.RawSignal `json:"raw_signal"`
	OutputPath      string            `json:"output_path,omitempty"`
	ValidationStage string            `json:"validation_stage,omitempty"`
	StartedAt       time.Time         `json:"started_at,omitempty"`
	FinishedAt      time.Time         `json:"finished_at,omitempty"`
}

// Success reports whether the clip completed with a verified output.
func (c ClipResult) Success() bool {
	return c.FailureKind == failure.KindNone
}

// JobResult aggregates every clip result for one job. It is computed, never
// hand-edited, and once persisted it is the authoritative record of what
// happened; later events produce new results for new jobs, not patches.
type JobResult struct {
	JobID           string            `json:"job_id"`
	Outcome         failure.Outcome   `json:"outcome"`
	Engine          capability.Engine `json:"engine,omitempty"`
	ValidationStage string            `json:"validation_stage,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	Clips           []ClipResult      `json:"clips"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Marshal encodes the result for the result sink.
func (r *JobResult) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal job result: %w", err)
	}
	return data, nil
}

// UnmarshalJobResult decodes a stored result.
func UnmarshalJobResult(data []byte) (*JobResult, error) {
	var result JobResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal job result: %w", err)
	}
	return &result, nil
}
