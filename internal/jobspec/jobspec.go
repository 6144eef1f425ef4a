package jobspec

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion is the JobSpec document version this build understands.
// Documents carrying any other version are rejected at the boundary.
const SchemaVersion = 1

// ClipSpec describes one source clip. It belongs to exactly one JobSpec and
// carries only what the policy deriver needs: codec, container, and
// resolution hints. No probing happens here; the fields come from the
// document as written.
type ClipSpec struct {
	Source    string `toml:"source" json:"source"`
	Codec     string `toml:"codec" json:"codec"`
	Container string `toml:"container" json:"container"`
	Width     int    `toml:"width" json:"width,omitempty"`
	Height    int    `toml:"height" json:"height,omitempty"`
}

// Settings is the job-level settings snapshot the policy deriver reads.
// It is opaque to routing; nothing here may influence engine selection.
type Settings struct {
	// VideoTarget names the delivery codec: "h264", "h265", or "av1".
	VideoTarget string `toml:"video_target" json:"video_target"`
	// Preset selects the bitrate ladder: "proxy", "delivery", or "archive".
	Preset string `toml:"preset" json:"preset"`
	// Container is the delivery container, defaulting to "mkv".
	Container string `toml:"container" json:"container,omitempty"`
}

// JobSpec is the immutable, versioned description of one transcode job.
type JobSpec struct {
	ID                 string     `toml:"id" json:"id"`
	Version            int        `toml:"version" json:"version"`
	Title              string     `toml:"title" json:"title,omitempty"`
	Clips              []ClipSpec `toml:"clips" json:"clips"`
	Settings           Settings   `toml:"settings" json:"settings"`
	ExecutionRequested bool       `toml:"execution_requested" json:"execution_requested"`
	CreatedAt          time.Time  `toml:"-" json:"created_at"`
}

// Validate performs the structural checks required before a JobSpec may enter
// the core. Version mismatch and malformed documents are rejected here, with
// no engine metadata, matching the pre-validation failure stage.
func (j *JobSpec) Validate() error {
	if j == nil {
		return fmt.Errorf("jobspec is nil")
	}
	if j.Version != SchemaVersion {
		return fmt.Errorf("unsupported jobspec version %d (expected %d)", j.Version, SchemaVersion)
	}
	if j.ID == "" {
		return fmt.Errorf("jobspec id is required")
	}
	if len(j.Clips) == 0 {
		return fmt.Errorf("jobspec must contain at least one clip")
	}
	for i, clip := range j.Clips {
		if clip.Source == "" {
			return fmt.Errorf("clip %d: source is required", i)
		}
		if clip.Codec == "" {
			return fmt.Errorf("clip %d: codec is required", i)
		}
		if clip.Container == "" {
			return fmt.Errorf("clip %d: container is required", i)
		}
	}
	return nil
}

// Snapshot returns the canonical JSON encoding of the JobSpec. Two JobSpecs
// with equal snapshots are the same job description; the snapshot is what the
// store persists so a replayed job is byte-identical to the admitted one.
func (j *JobSpec) Snapshot() ([]byte, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("marshal jobspec: %w", err)
	}
	return data, nil
}

// FromSnapshot reconstructs a JobSpec from its canonical encoding.
func FromSnapshot(data []byte) (*JobSpec, error) {
	var spec JobSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal jobspec: %w", err)
	}
	return &spec, nil
}

// ClipCount reports the number of clips without exposing the slice for
// mutation.
func (j *JobSpec) ClipCount() int {
	return len(j.Clips)
}
