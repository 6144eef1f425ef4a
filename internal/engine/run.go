package engine

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"shuttle/internal/failure"
)

var commandContext = exec.CommandContext

// stderrTailBytes bounds how much engine stderr travels with a signal.
const stderrTailBytes = 4096

// Run launches an engine binary and captures the process-level facts of its
// completion. The returned signal carries no verification data; the adapter
// adds output facts before classification.
func Run(ctx context.Context, binary string, args []string) failure.RawSignal {
	cmd := commandContext(ctx, binary, args...)

	var stderr tailBuffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return failure.RawSignal{SpawnError: err.Error()}
	}

	signal := failure.RawSignal{Started: true}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			signal.ExitCode = exitErr.ExitCode()
		} else {
			signal.ExitCode = -1
			signal.SpawnError = err.Error()
		}
	}
	signal.StderrTail = strings.TrimSpace(stderr.String())
	return signal
}

// tailBuffer keeps the last stderrTailBytes written to it. Engines can spew
// megabytes of progress output; only the end matters for diagnosis.
type tailBuffer struct {
	data []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	if overflow := len(b.data) - stderrTailBytes; overflow > 0 {
		b.data = b.data[overflow:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.data)
}
