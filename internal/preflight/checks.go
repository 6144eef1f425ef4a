// Package preflight verifies the environment before the daemon accepts
// work: engine binaries resolvable, directories writable, and enough free
// disk for staging output.
package preflight

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"shuttle/internal/config"
)

// minFreeBytes is the floor below which the output volume is considered too
// full to accept encodes.
const minFreeBytes = 1 << 30

// Check is one named preflight verification.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes every preflight check and reports the results. The first
// return is false when any check failed.
func Run(cfg *config.Config) (bool, []Check) {
	checks := []Check{
		binaryCheck("ffmpeg binary", cfg.Engines.FFmpegBinary),
		binaryCheck("resolve binary", cfg.Engines.ResolveBinary),
		dirCheck("staging directory", cfg.Paths.StagingDir),
		dirCheck("output directory", cfg.Paths.OutputDir),
		dirCheck("data directory", cfg.Paths.DataDir),
		spaceCheck("output free space", cfg.Paths.OutputDir),
	}

	ok := true
	for _, check := range checks {
		if !check.Passed {
			ok = false
		}
	}
	return ok, checks
}

func binaryCheck(name, binary string) Check {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Check{Name: name, Detail: fmt.Sprintf("%q not found on PATH", binary)}
	}
	return Check{Name: name, Passed: true, Detail: path}
}

func dirCheck(name, dir string) Check {
	if strings.TrimSpace(dir) == "" {
		return Check{Name: name, Detail: "not configured"}
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Check{Name: name, Detail: fmt.Sprintf("%s not writable: %v", dir, err)}
	}
	return Check{Name: name, Passed: true, Detail: dir}
}

func spaceCheck(name, dir string) Check {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Check{Name: name, Detail: fmt.Sprintf("statfs %s: %v", dir, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Check{Name: name, Detail: fmt.Sprintf("%d MiB free, below the 1 GiB floor", free>>20)}
	}
	return Check{Name: name, Passed: true, Detail: fmt.Sprintf("%d GiB free", free>>30)}
}
