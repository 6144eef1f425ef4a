// Package ffmpeg wraps the ffmpeg command-line encoder as an execution
// engine. The command line is built entirely from the clip's policy; nothing
// here inspects the source or adjusts parameters on its own.
package ffmpeg

import (
	"context"
	"strconv"

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

// CLI invokes the ffmpeg binary, one process per clip.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Invoke runs one ffmpeg encode and reports the raw completion signal.
func (c *CLI) Invoke(ctx context.Context, source string, pol policy.ClipPolicy, outputPath string) failure.RawSignal {
	signal := engine.Run(ctx, c.binary, BuildArgs(source, pol, outputPath))
	signal.OutputPath = outputPath
	return signal
}

// BuildArgs translates a clip policy into the ffmpeg command line. Exposed
// so tests and the classify command can show exactly what would run.
func BuildArgs(source string, pol policy.ClipPolicy, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", source,
		"-c:v", pol.VideoCodec,
	}
	if pol.VideoCodec != "copy" {
		if pol.VideoBitrate > 0 {
			args = append(args, "-b:v", strconv.Itoa(pol.VideoBitrate)+"k")
		}
		if pol.VideoPreset != "" {
			args = append(args, "-preset", presetName(pol.VideoPreset))
		}
	}
	args = append(args, "-c:a", pol.AudioCodec)
	args = append(args, outputPath)
	return args
}

// presetName maps shuttle's ladder names onto encoder speed presets.
func presetName(preset string) string {
	switch preset {
	case "proxy":
		return "veryfast"
	case "archive":
		return "slow"
	default:
		return "medium"
	}
}
