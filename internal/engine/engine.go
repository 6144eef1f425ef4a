package engine

import (
	"context"

	"shuttle/internal/failure"
	"shuttle/internal/policy"
)

// Invoker dispatches one clip to an external engine and reports the raw
// completion signal. Implementations must not retry and must not interpret
// the outcome beyond recording process-level facts.
type Invoker interface {
	Invoke(ctx context.Context, source string, pol policy.ClipPolicy, outputPath string) failure.RawSignal
}
