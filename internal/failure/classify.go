package failure

import "strings"

// Kind is the closed set of clip failure classifications.
type Kind string

const (
	// KindNone marks a verified successful clip.
	KindNone Kind = ""
	// KindEngineUnavailable: the engine binary could not be started at all.
	KindEngineUnavailable Kind = "engine-unavailable"
	// KindEngineAlreadyRunning: the engine refused to start because another
	// instance holds its lock (Resolve is single-instance).
	KindEngineAlreadyRunning Kind = "engine-already-running"
	// KindEngineCrashed: the engine started and exited non-zero.
	KindEngineCrashed Kind = "engine-crashed"
	// KindOutputMissing: the engine reported success but produced no file.
	KindOutputMissing Kind = "output-missing"
	// KindOutputInvalid: the output file exists but is empty.
	KindOutputInvalid Kind = "output-invalid"
	// KindPolicyInvalid: no valid engine parameters could be derived.
	KindPolicyInvalid Kind = "policy-invalid"
	// KindCancelled: the clip was never dispatched because the job was
	// cancelled first.
	KindCancelled Kind = "cancelled"
	// KindUnclassified is the mandatory catch-all for signals the rules do
	// not recognize.
	KindUnclassified Kind = "unclassified"
)

// RawSignal is the complete record of what happened when a clip was
// dispatched. The execution adapter fills it in, including the output
// verification facts, so classification itself stays free of side effects.
type RawSignal struct {
	// SpawnError is the error string when the engine process never started.
	SpawnError string
	// ExitCode is the engine's exit status; meaningful only when Started.
	ExitCode int
	// Started reports whether the engine process launched.
	Started bool
	// StderrTail is the captured tail of the engine's stderr.
	StderrTail string
	// OutputPath is where the policy directed the engine to write.
	OutputPath string
	// OutputExists and OutputBytes are the adapter's verification facts.
	OutputExists bool
	OutputBytes  int64
	// Cancelled marks a clip skipped because of an explicit job cancel.
	Cancelled bool
}

// busyMarkers are stderr fragments that identify a single-instance engine
// refusing to start because it is already running.
var busyMarkers = []string{
	"already running",
	"another instance",
	"resource busy",
	"could not acquire lock",
}

// Classify maps a raw signal to exactly one failure kind, or KindNone for a
// verified success. Same signal, same kind, always.
func Classify(signal RawSignal) Kind {
	if signal.Cancelled {
		return KindCancelled
	}
	if !signal.Started {
		if signal.SpawnError != "" {
			return KindEngineUnavailable
		}
		return KindUnclassified
	}
	if signal.ExitCode != 0 {
		stderr := strings.ToLower(signal.StderrTail)
		for _, marker := range busyMarkers {
			if strings.Contains(stderr, marker) {
				return KindEngineAlreadyRunning
			}
		}
		return KindEngineCrashed
	}
	// Exit 0: success only with a verifiable output.
	if !signal.OutputExists {
		return KindOutputMissing
	}
	if signal.OutputBytes == 0 {
		return KindOutputInvalid
	}
	return KindNone
}

// Reason renders the operator-facing reason string for a classified signal.
// Every failure carries a specific reason tied to its kind; there is no
// generic fallback message.
func Reason(kind Kind, signal RawSignal) string {
	switch kind {
	case KindNone:
		return ""
	case KindEngineUnavailable:
		return "engine could not be started: " + signal.SpawnError
	case KindEngineAlreadyRunning:
		return "engine refused to start: another instance is running"
	case KindEngineCrashed:
		if tail := strings.TrimSpace(signal.StderrTail); tail != "" {
			return "engine exited with an error: " + tail
		}
		return "engine exited with an error"
	case KindOutputMissing:
		return "engine reported success but produced no output at " + signal.OutputPath
	case KindOutputInvalid:
		return "engine produced an empty output at " + signal.OutputPath
	case KindPolicyInvalid:
		return "no valid engine parameters could be derived"
	case KindCancelled:
		return "job cancelled before this clip was dispatched"
	default:
		return "execution failed for an unrecognized reason"
	}
}
