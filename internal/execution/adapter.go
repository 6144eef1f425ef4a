package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shuttle/internal/capability"
	"shuttle/internal/config"
	"shuttle/internal/engine"
	"shuttle/internal/failure"
	"shuttle/internal/jobspec"
	"shuttle/internal/lifecycle"
	"shuttle/internal/logging"
	"shuttle/internal/policy"
)

// EventSink is the append-only destination for execution events. The store
// satisfies it.
type EventSink interface {
	AppendEvent(ctx context.Context, event lifecycle.Event) (lifecycle.Event, error)
	HasEvent(ctx context.Context, jobID string, eventType lifecycle.EventType) (bool, error)
}

// Adapter executes admitted JobSpecs against the external engines.
type Adapter struct {
	cfg            *config.Config
	events         EventSink
	invokers       map[capability.Engine]engine.Invoker
	resolveEdition capability.Edition
	logger         *slog.Logger
}

// Option configures optional Adapter behavior.
type Option func(*Adapter)

// WithInvoker overrides the invoker for one engine (used in tests and by the
// daemon to inject configured binaries).
func WithInvoker(eng capability.Engine, invoker engine.Invoker) Option {
	return func(a *Adapter) {
		a.invokers[eng] = invoker
	}
}

// WithResolveEdition records the detected Resolve edition used to gate
// edition-restricted RAW formats at dispatch time.
func WithResolveEdition(edition capability.Edition) Option {
	return func(a *Adapter) {
		a.resolveEdition = edition
	}
}

// NewAdapter constructs an execution adapter.
func NewAdapter(cfg *config.Config, events EventSink, logger *slog.Logger, opts ...Option) *Adapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	adapter := &Adapter{
		cfg:      cfg,
		events:   events,
		invokers: make(map[capability.Engine]engine.Invoker),
		logger:   logging.WithComponent(logger, "execution"),
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// ExecuteJobSpec runs one job start to finish and returns its aggregated
// result. The error return is reserved for infrastructure failures (an
// unreachable event sink); every job-level and clip-level failure is
// reported inside the result, never swallowed.
func (a *Adapter) ExecuteJobSpec(ctx context.Context, spec *jobspec.JobSpec) (*JobResult, error) {
	logger := a.logger.With(logging.String(logging.FieldJobID, specID(spec)))

	// Gate 1: the execution flag. A JobSpec that never asked to run is
	// rejected without touching the event log, so its lifecycle never
	// leaves created.
	if spec == nil || !spec.ExecutionRequested {
		logger.Warn("jobspec rejected: execution not requested",
			logging.String(logging.FieldEventType, "execution_not_requested"))
		return &JobResult{
			JobID:           specID(spec),
			Outcome:         failure.OutcomeFailed,
			ValidationStage: StageStructural,
			Reason:          "execution not requested",
			CreatedAt:       time.Now().UTC(),
		}, nil
	}

	if _, err := a.emit(ctx, spec.ID, lifecycle.EventValidationStarted, lifecycle.NoClip, ""); err != nil {
		return nil, err
	}

	// Gate 2: structural validation.
	if err := spec.Validate(); err != nil {
		return a.failJob(ctx, logger, spec.ID, StageStructural, "", err.Error())
	}

	// Gate 3: one engine for the whole job, decided before anything runs.
	jobEngine, facts, err := capability.DetermineEngine(spec.Clips)
	if err != nil {
		return a.failJob(ctx, logger, spec.ID, StagePreJob, "", err.Error())
	}

	if _, err := a.emit(ctx, spec.ID, lifecycle.EventValidationSucceeded, lifecycle.NoClip, string(jobEngine)); err != nil {
		return nil, err
	}
	logger = logger.With(logging.String(logging.FieldEngine, string(jobEngine)))

	// Gate 4: per-clip policies. A failed derivation isolates to its clip.
	policies, deriveErrs := policy.Derive(spec, facts)
	policyFailed := make(map[int]*policy.DeriveError, len(deriveErrs))
	for _, deriveErr := range deriveErrs {
		policyFailed[deriveErr.ClipIndex] = deriveErr
	}

	clips := make([]ClipResult, len(spec.Clips))
	dispatchable := 0
	for i := range spec.Clips {
		if deriveErr, ok := policyFailed[i]; ok {
			logger.Warn("clip policy derivation failed",
				logging.Int(logging.FieldClipIndex, i),
				logging.String(logging.FieldFailureKind, string(failure.KindPolicyInvalid)),
				logging.String("reason", deriveErr.Reason))
			clips[i] = ClipResult{
				ClipIndex:       i,
				Engine:          jobEngine,
				FailureKind:     failure.KindPolicyInvalid,
				Reason:          deriveErr.Reason,
				ValidationStage: StagePolicy,
			}
			continue
		}
		dispatchable++
	}

	if dispatchable > 0 {
		if _, err := a.emit(ctx, spec.ID, lifecycle.EventExecutionStarted, lifecycle.NoClip, ""); err != nil {
			return nil, err
		}
	}

	cancelled := false
	for i := range spec.Clips {
		if _, ok := policyFailed[i]; ok {
			continue
		}
		if !cancelled {
			wasCancelled, err := a.events.HasEvent(ctx, spec.ID, lifecycle.EventJobCancelled)
			if err != nil {
				return nil, fmt.Errorf("check cancellation: %w", err)
			}
			cancelled = wasCancelled
		}
		if cancelled {
			// Already-recorded results stand; undispatched clips stop here.
			clips[i] = ClipResult{
				ClipIndex:       i,
				Engine:          jobEngine,
				Policy:          policies[i],
				FailureKind:     failure.KindCancelled,
				Reason:          failure.Reason(failure.KindCancelled, failure.RawSignal{Cancelled: true}),
				RawSignal:       failure.RawSignal{Cancelled: true},
				ValidationStage: StageDispatch,
			}
			continue
		}

		result, err := a.dispatchClip(ctx, logger, spec, i, policies[i])
		if err != nil {
			return nil, err
		}
		clips[i] = result
	}

	return a.aggregate(ctx, logger, spec.ID, jobEngine, clips)
}

func (a *Adapter) dispatchClip(ctx context.Context, logger *slog.Logger, spec *jobspec.JobSpec, index int, pol policy.ClipPolicy) (ClipResult, error) {
	clip := spec.Clips[index]
	clipLogger := logger.With(logging.Int(logging.FieldClipIndex, index))

	result := ClipResult{
		ClipIndex: index,
		Engine:    pol.Engine,
		Policy:    pol,
		StartedAt: time.Now().UTC(),
	}

	if _, err := a.emit(ctx, spec.ID, lifecycle.EventClipDispatched, index, clip.Source); err != nil {
		return ClipResult{}, err
	}

	signal := a.invokeClip(ctx, clipLogger, spec.ID, index, clip, pol)
	a.verifyOutput(&signal)

	kind := failure.Classify(signal)
	result.RawSignal = signal
	result.FailureKind = kind
	result.Reason = failure.Reason(kind, signal)
	result.FinishedAt = time.Now().UTC()

	switch kind {
	case failure.KindNone:
		result.OutputPath = signal.OutputPath
		clipLogger.Info("clip completed",
			logging.String(logging.FieldEventType, "clip_completed"),
			logging.String("output", signal.OutputPath),
			logging.Duration("clip_duration", result.FinishedAt.Sub(result.StartedAt)))
		if _, err := a.emit(ctx, spec.ID, lifecycle.EventClipCompleted, index, signal.OutputPath); err != nil {
			return ClipResult{}, err
		}
	case failure.KindOutputMissing, failure.KindOutputInvalid:
		result.ValidationStage = StageVerify
		a.logClipFailure(clipLogger, kind, result.Reason)
		if _, err := a.emit(ctx, spec.ID, lifecycle.EventClipFailed, index, result.Reason); err != nil {
			return ClipResult{}, err
		}
	default:
		result.ValidationStage = StageDispatch
		a.logClipFailure(clipLogger, kind, result.Reason)
		if _, err := a.emit(ctx, spec.ID, lifecycle.EventClipFailed, index, result.Reason); err != nil {
			return ClipResult{}, err
		}
	}

	return result, nil
}

func (a *Adapter) invokeClip(ctx context.Context, logger *slog.Logger, jobID string, index int, clip jobspec.ClipSpec, pol policy.ClipPolicy) failure.RawSignal {
	// Edition-gated RAW resolves against the detected edition here, at
	// dispatch time, never during classification.
	if pol.RawEdition != "" && a.resolveEdition != pol.RawEdition {
		return failure.RawSignal{
			SpawnError: fmt.Sprintf("resolve %s edition required, %s installed", pol.RawEdition, editionLabel(a.resolveEdition)),
			OutputPath: a.outputPath(jobID, index, pol),
		}
	}

	invoker, ok := a.invokers[pol.Engine]
	if !ok {
		return failure.RawSignal{
			SpawnError: fmt.Sprintf("no invoker configured for engine %q", pol.Engine),
			OutputPath: a.outputPath(jobID, index, pol),
		}
	}

	outputPath := a.outputPath(jobID, index, pol)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return failure.RawSignal{
			SpawnError: fmt.Sprintf("create output directory: %v", err),
			OutputPath: outputPath,
		}
	}

	logger.Info("dispatching clip",
		logging.String(logging.FieldEventType, "clip_dispatched"),
		logging.String("source", clip.Source),
		logging.String("class", string(pol.Class)),
		logging.String("output", outputPath))

	signal := invoker.Invoke(ctx, clip.Source, pol, outputPath)
	if signal.OutputPath == "" {
		signal.OutputPath = outputPath
	}
	return signal
}

// verifyOutput records the output-file facts on the signal. An engine
// reporting success without a verifiable output is a failure, so this runs
// before classification for every dispatched clip.
func (a *Adapter) verifyOutput(signal *failure.RawSignal) {
	if signal.OutputPath == "" {
		return
	}
	info, err := os.Stat(signal.OutputPath)
	if err != nil {
		signal.OutputExists = false
		signal.OutputBytes = 0
		return
	}
	signal.OutputExists = true
	signal.OutputBytes = info.Size()
}

func (a *Adapter) aggregate(ctx context.Context, logger *slog.Logger, jobID string, jobEngine capability.Engine, clips []ClipResult) (*JobResult, error) {
	kinds := make([]failure.Kind, len(clips))
	for i, clip := range clips {
		kinds[i] = clip.FailureKind
	}
	outcome := failure.DeriveOutcome(kinds)

	result := &JobResult{
		JobID:     jobID,
		Outcome:   outcome,
		Engine:    jobEngine,
		Clips:     clips,
		CreatedAt: time.Now().UTC(),
	}

	switch outcome {
	case failure.OutcomeCompleted:
		logger.Info("job completed",
			logging.String(logging.FieldEventType, "job_completed"),
			logging.Int("clips", len(clips)))
		if _, err := a.emit(ctx, jobID, lifecycle.EventJobCompleted, lifecycle.NoClip, ""); err != nil {
			return nil, err
		}
	case failure.OutcomeCancelled:
		// The externally recorded job_cancelled event is already the
		// terminal fact; appending another would only create an anomaly.
		result.Reason = "job cancelled"
		logger.Info("job cancelled",
			logging.String(logging.FieldEventType, "job_cancelled"))
	default:
		result.ValidationStage, result.Reason = summarizeFailure(clips)
		logger.Error("job failed",
			logging.String(logging.FieldEventType, "job_failed"),
			logging.String("reason", result.Reason),
			logging.String(logging.FieldErrorHint, "inspect clip results with 'shuttle show'"))
		if _, err := a.emit(ctx, jobID, lifecycle.EventJobFailed, lifecycle.NoClip, result.Reason); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// failJob records a job-level rejection that occurred before any dispatch.
// Engine metadata stays absent: no engine was chosen, and pretending
// otherwise would corrupt the audit trail.
func (a *Adapter) failJob(ctx context.Context, logger *slog.Logger, jobID, stage, engineUsed, reason string) (*JobResult, error) {
	logger.Error("job rejected",
		logging.String(logging.FieldEventType, "job_rejected"),
		logging.String("validation_stage", stage),
		logging.String("reason", reason))
	if _, err := a.emit(ctx, jobID, lifecycle.EventJobFailed, lifecycle.NoClip, reason); err != nil {
		return nil, err
	}
	return &JobResult{
		JobID:           jobID,
		Outcome:         failure.OutcomeFailed,
		Engine:          capability.Engine(engineUsed),
		ValidationStage: stage,
		Reason:          reason,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (a *Adapter) emit(ctx context.Context, jobID string, eventType lifecycle.EventType, clipIndex int, detail string) (lifecycle.Event, error) {
	event, err := a.events.AppendEvent(ctx, lifecycle.Event{
		JobID:     jobID,
		Type:      eventType,
		ClipIndex: clipIndex,
		Detail:    detail,
	})
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("append %s event: %w", eventType, err)
	}
	return event, nil
}

func (a *Adapter) logClipFailure(logger *slog.Logger, kind failure.Kind, reason string) {
	logger.Error("clip failed",
		logging.String(logging.FieldEventType, "clip_failed"),
		logging.String(logging.FieldFailureKind, string(kind)),
		logging.String("reason", reason))
}

func (a *Adapter) outputPath(jobID string, index int, pol policy.ClipPolicy) string {
	name := fmt.Sprintf("clip_%03d.%s", index, pol.Container)
	return filepath.Join(a.cfg.Paths.OutputDir, jobID, name)
}

func summarizeFailure(clips []ClipResult) (stage, reason string) {
	for _, clip := range clips {
		if clip.Success() {
			continue
		}
		return clip.ValidationStage, fmt.Sprintf("clip %d: %s", clip.ClipIndex, clip.Reason)
	}
	return StageDispatch, "job failed with no clip diagnostics"
}

func specID(spec *jobspec.JobSpec) string {
	if spec == nil {
		return ""
	}
	return spec.ID
}

func editionLabel(edition capability.Edition) string {
	if edition == "" {
		return "unknown edition"
	}
	return string(edition)
}
