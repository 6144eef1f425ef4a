package jobspec

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// ParseDocument decodes a TOML JobSpec document and runs structural
// validation. Documents without an id are assigned a fresh UUID; everything
// else must be present and well formed or the document is rejected before
// any core logic sees it.
func ParseDocument(data []byte) (*JobSpec, error) {
	var spec JobSpec
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse jobspec document: %w", err)
	}

	if strings.TrimSpace(spec.ID) == "" {
		spec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(spec.ID); err != nil {
		return nil, fmt.Errorf("jobspec id %q is not a valid UUID: %w", spec.ID, err)
	}
	spec.CreatedAt = time.Now().UTC()

	normalize(&spec)

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ParseFile reads and parses a JobSpec document from disk.
func ParseFile(path string) (*JobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobspec document: %w", err)
	}
	return ParseDocument(data)
}

func normalize(spec *JobSpec) {
	spec.Title = strings.TrimSpace(spec.Title)
	spec.Settings.VideoTarget = strings.ToLower(strings.TrimSpace(spec.Settings.VideoTarget))
	spec.Settings.Preset = strings.ToLower(strings.TrimSpace(spec.Settings.Preset))
	spec.Settings.Container = strings.ToLower(strings.TrimSpace(spec.Settings.Container))
	for i := range spec.Clips {
		spec.Clips[i].Source = strings.TrimSpace(spec.Clips[i].Source)
		spec.Clips[i].Codec = strings.ToLower(strings.TrimSpace(spec.Clips[i].Codec))
		spec.Clips[i].Container = strings.ToLower(strings.TrimSpace(spec.Clips[i].Container))
	}
}
