package dispatch

import (
	"context"
	"fmt"
	"time"

	"shuttle/internal/execution"
	"shuttle/internal/failure"
	"shuttle/internal/lifecycle"
	"shuttle/internal/services"
	"shuttle/internal/store"
)

// Cancel records an explicit cancel event for a job. A running job stops
// dispatching further clips at its next gate; already-recorded clip results
// are untouched. A job that never started is closed out with a cancelled
// result immediately.
func Cancel(ctx context.Context, st *store.Store, jobID string) error {
	job, err := st.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return services.WrapHint(services.ErrNotFound, "cancel", "lookup",
			fmt.Sprintf("no job %s", jobID), "list admitted jobs with 'shuttle queue list'", nil)
	}

	derivation, err := st.DeriveState(ctx, jobID)
	if err != nil {
		return err
	}
	if derivation.State.Terminal() {
		return services.Wrap(services.ErrValidation, "cancel", "state check",
			fmt.Sprintf("job %s is already %s", jobID, derivation.State), nil)
	}

	if _, err := st.AppendEvent(ctx, lifecycle.Event{
		JobID:     jobID,
		Type:      lifecycle.EventJobCancelled,
		ClipIndex: lifecycle.NoClip,
		Detail:    "cancel requested",
	}); err != nil {
		return err
	}

	if derivation.State == lifecycle.StateCreated {
		result := &execution.JobResult{
			JobID:     jobID,
			Outcome:   failure.OutcomeCancelled,
			Reason:    "cancelled before execution started",
			CreatedAt: time.Now().UTC(),
		}
		// A dispatcher that raced us to this job records the result instead.
		if err := st.SaveResult(ctx, result); err != nil {
			return nil
		}
	}
	return nil
}
