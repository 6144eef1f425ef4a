package capability

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"shuttle/internal/jobspec"
)

// MixedEngineError reports a job whose clips resolve to more than one
// engine. Such a job is rejected whole; splitting it automatically would hide
// a routing decision the author needs to make explicitly.
type MixedEngineError struct {
	// Assignments maps engine name to the clip indexes that resolved to it.
	Assignments map[Engine][]int
}

func (e *MixedEngineError) Error() string {
	engines := make([]string, 0, len(e.Assignments))
	for engine := range e.Assignments {
		engines = append(engines, string(engine))
	}
	sort.Strings(engines)
	return fmt.Sprintf("job mixes engines %s; split the job per engine", strings.Join(engines, " and "))
}

// SourceCapabilityError reports a clip whose source was rejected outright.
type SourceCapabilityError struct {
	ClipIndex int
	Cause     *RejectionError
}

func (e *SourceCapabilityError) Error() string {
	return fmt.Sprintf("clip %d: %v", e.ClipIndex, e.Cause)
}

func (e *SourceCapabilityError) Unwrap() error { return e.Cause }

// DetermineEngine aggregates per-clip classifications into the single engine
// the whole job must use. Any rejected clip, or clips spanning two engines,
// rejects the job before anything is dispatched; there is no partial
// dispatch of a mixed job.
func DetermineEngine(clips []jobspec.ClipSpec) (Engine, []Classification, error) {
	facts := make([]Classification, 0, len(clips))
	assignments := make(map[Engine][]int)

	for i, clip := range clips {
		fact, err := ClassifyClip(clip)
		if err != nil {
			var rejection *RejectionError
			if errors.As(err, &rejection) {
				return "", nil, &SourceCapabilityError{ClipIndex: i, Cause: rejection}
			}
			return "", nil, fmt.Errorf("classify clip %d: %w", i, err)
		}
		facts = append(facts, fact)
		assignments[fact.Engine] = append(assignments[fact.Engine], i)
	}

	if len(assignments) > 1 {
		return "", nil, &MixedEngineError{Assignments: assignments}
	}
	for engine := range assignments {
		return engine, facts, nil
	}
	return "", nil, fmt.Errorf("job has no clips to classify")
}
