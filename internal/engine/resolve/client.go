// Package resolve wraps the DaVinci Resolve render runner as an execution
// engine for camera-RAW sources, and detects the installed edition for
// edition-gated formats.
package resolve

import (
	"context"
	"os/exec"
	"strings"

	"shuttle/internal/capability"
	"shuttle/internal/engine"
	"shuttle/internal/failure"
	"shuttle/internal/policy"
)

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI invokes the Resolve render runner, one process per clip. Resolve is
// single-instance; a second concurrent invocation fails with a lock error
// the failure classifier recognizes.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "resolve"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Invoke runs one Resolve render and reports the raw completion signal.
func (c *CLI) Invoke(ctx context.Context, source string, pol policy.ClipPolicy, outputPath string) failure.RawSignal {
	signal := engine.Run(ctx, c.binary, BuildArgs(source, pol, outputPath))
	signal.OutputPath = outputPath
	return signal
}

// BuildArgs translates a clip policy into the headless render invocation.
func BuildArgs(source string, pol policy.ClipPolicy, outputPath string) []string {
	return []string{
		"-nogui",
		"-render",
		"-preset", pol.VideoPreset,
		"-input", source,
		"-output", outputPath,
	}
}

// DetectEdition reports which Resolve edition is installed by asking the
// binary for its version banner. Detection failures surface as an error
// rather than defaulting to an edition; edition-gated dispatch must never
// guess.
func DetectEdition(ctx context.Context, binary string) (capability.Edition, error) {
	out, err := exec.CommandContext(ctx, binary, "--version").CombinedOutput()
	if err != nil {
		return "", err
	}
	if strings.Contains(strings.ToLower(string(out)), "studio") {
		return capability.EditionStudio, nil
	}
	return capability.EditionFree, nil
}
