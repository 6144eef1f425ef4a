package testsupport

import (
	"time"

	"github.com/google/uuid"

	"shuttle/internal/jobspec"
)

// JobSpecOption mutates the spec under construction before it is returned.
type JobSpecOption func(*jobspec.JobSpec)

// NewJobSpec builds a valid single-clip h264 JobSpec suitable for most
// tests. Options adjust it before use.
func NewJobSpec(opts ...JobSpecOption) *jobspec.JobSpec {
	spec := &jobspec.JobSpec{
		ID:      uuid.NewString(),
		Version: jobspec.SchemaVersion,
		Title:   "test job",
		Clips: []jobspec.ClipSpec{
			{Source: "/media/in/clip.mp4", Codec: "h264", Container: "mp4", Width: 1920, Height: 1080},
		},
		Settings: jobspec.Settings{
			VideoTarget: "h265",
			Preset:      "delivery",
		},
		ExecutionRequested: true,
		CreatedAt:          time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(spec)
	}
	return spec
}

// WithClips replaces the spec's clips.
func WithClips(clips ...jobspec.ClipSpec) JobSpecOption {
	return func(spec *jobspec.JobSpec) {
		spec.Clips = clips
	}
}

// WithExecutionRequested sets the execution flag.
func WithExecutionRequested(requested bool) JobSpecOption {
	return func(spec *jobspec.JobSpec) {
		spec.ExecutionRequested = requested
	}
}

// WithSettings replaces the settings snapshot.
func WithSettings(settings jobspec.Settings) JobSpecOption {
	return func(spec *jobspec.JobSpec) {
		spec.Settings = settings
	}
}
