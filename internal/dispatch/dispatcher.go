package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shuttle/internal/config"
	"shuttle/internal/execution"
	"shuttle/internal/failure"
	"shuttle/internal/lifecycle"
	"shuttle/internal/logging"
	"shuttle/internal/store"
)

// Dispatcher drains the job queue through the execution adapter.
type Dispatcher struct {
	cfg          *config.Config
	store        *store.Store
	adapter      *execution.Adapter
	logger       *slog.Logger
	pollInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// New constructs a dispatcher.
func New(cfg *config.Config, st *store.Store, adapter *execution.Adapter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		cfg:          cfg,
		store:        st,
		adapter:      adapter,
		logger:       logging.WithComponent(logger, "dispatcher"),
		pollInterval: time.Duration(cfg.Dispatch.QueuePollInterval) * time.Second,
	}
}

// Start begins background processing.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.New("dispatcher already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running = true
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the in-flight job, if
// any, to finish its current clip and record a terminal state.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	d.running = false
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	d.wg.Wait()
}

// Running reports whether the dispatcher loop is active.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// LastError returns the most recent processing error, for status reporting.
func (d *Dispatcher) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := d.store.NextPending(ctx)
		if err != nil {
			d.setLastError(err)
			d.logger.Error("queue poll failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check queue database access"))
			d.waitOrShutdown(ctx)
			continue
		}
		if job == nil {
			d.waitOrShutdown(ctx)
			continue
		}

		if err := d.processJob(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			d.setLastError(err)
			d.waitOrShutdown(ctx)
		}
	}
}

// processJob drives one job to a terminal lifecycle state. It holds the
// single execution slot for the whole duration, which is what enforces the
// FIFO guarantee: NextPending cannot move past this job until a terminal
// event lands.
func (d *Dispatcher) processJob(ctx context.Context, job *store.Job) error {
	runID := uuid.NewString()
	logger := d.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldRunID, runID),
	)

	derivation, err := d.store.DeriveState(ctx, job.ID)
	if err != nil {
		return err
	}
	if derivation.State != lifecycle.StateCreated {
		// Events exist but no terminal state: the daemon died mid-job.
		// Nothing is retried; the job is closed out as failed.
		return d.closeOut(ctx, logger, job.ID, "interrupted before completion; not retried")
	}

	spec, err := job.Spec()
	if err != nil {
		return d.closeOut(ctx, logger, job.ID, "stored jobspec snapshot is unreadable: "+err.Error())
	}
	if !spec.ExecutionRequested {
		// The ingestion boundary refuses these; a hand-edited database is
		// the only way here. Close it out rather than dispatch it.
		return d.closeOut(ctx, logger, job.ID, "execution not requested")
	}

	logger.Info("job admitted to execution slot",
		logging.String(logging.FieldEventType, "job_admitted"),
		logging.Int("clips", spec.ClipCount()))

	start := time.Now()
	result, err := d.adapter.ExecuteJobSpec(ctx, spec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return d.closeOut(ctx, logger, job.ID, "execution infrastructure failure: "+err.Error())
	}

	if err := d.store.SaveResult(ctx, result); err != nil {
		// A cancel recorded while the job was still pending may have saved
		// its result first; the stored record wins.
		logger.Warn("job result already recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "result_conflict"))
	}

	logger.Info("job reached terminal state",
		logging.String(logging.FieldEventType, "job_terminal"),
		logging.String("outcome", string(result.Outcome)),
		logging.Duration("job_duration", time.Since(start)))
	return nil
}

// closeOut records a terminal failure for a job that cannot or must not be
// executed, so the queue keeps moving without retrying it.
func (d *Dispatcher) closeOut(ctx context.Context, logger *slog.Logger, jobID, reason string) error {
	logger.Error("closing out job as failed",
		logging.String(logging.FieldEventType, "job_closed_out"),
		logging.String("reason", reason))

	if _, err := d.store.AppendEvent(ctx, lifecycle.Event{
		JobID:     jobID,
		Type:      lifecycle.EventJobFailed,
		ClipIndex: lifecycle.NoClip,
		Detail:    reason,
	}); err != nil {
		return err
	}

	result := &execution.JobResult{
		JobID:           jobID,
		Outcome:         failure.OutcomeFailed,
		ValidationStage: execution.StageStructural,
		Reason:          reason,
		CreatedAt:       time.Now().UTC(),
	}
	if err := d.store.SaveResult(ctx, result); err != nil {
		logger.Warn("could not record close-out result", logging.Error(err))
	}
	return nil
}

func (d *Dispatcher) waitOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(d.pollInterval):
	}
}

func (d *Dispatcher) setLastError(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}
