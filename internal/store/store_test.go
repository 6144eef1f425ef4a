package store_test

import (
	"context"
	"strings"
	"testing"

	"shuttle/internal/execution"
	"shuttle/internal/failure"
	"shuttle/internal/lifecycle"
	"shuttle/internal/testsupport"
)

func TestEnqueueAndGetJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	spec := testsupport.NewJobSpec()
	job := testsupport.Enqueue(t, st, spec)

	if job.ID != spec.ID {
		t.Errorf("id: expected %s, got %s", spec.ID, job.ID)
	}
	if job.Position <= 0 {
		t.Errorf("position should be assigned, got %d", job.Position)
	}

	fetched, err := st.GetJob(ctx, spec.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if fetched == nil {
		t.Fatal("job not found after enqueue")
	}

	restored, err := fetched.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	if restored.ID != spec.ID || len(restored.Clips) != len(spec.Clips) {
		t.Errorf("stored snapshot does not match admitted spec")
	}
}

func TestGetJobMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	job, err := st.GetJob(context.Background(), "no-such-job")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job != nil {
		t.Errorf("expected nil for a missing job, got %+v", job)
	}
}

func TestEnqueueRejectsDuplicateID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	spec := testsupport.NewJobSpec()
	testsupport.Enqueue(t, st, spec)
	if _, err := st.Enqueue(context.Background(), spec); err == nil {
		t.Fatal("expected duplicate id rejection")
	}
}

func TestNextPendingIsFIFO(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.Enqueue(t, st, testsupport.NewJobSpec())
	second := testsupport.Enqueue(t, st, testsupport.NewJobSpec())
	third := testsupport.Enqueue(t, st, testsupport.NewJobSpec())

	for _, expected := range []string{first.ID, second.ID, third.ID} {
		job, err := st.NextPending(ctx)
		if err != nil {
			t.Fatalf("NextPending: %v", err)
		}
		if job == nil || job.ID != expected {
			t.Fatalf("expected job %s next, got %+v", expected, job)
		}
		// Close it out so the queue can advance.
		if _, err := st.AppendEvent(ctx, lifecycle.Event{
			JobID:     job.ID,
			Type:      lifecycle.EventJobCompleted,
			ClipIndex: lifecycle.NoClip,
		}); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	job, err := st.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending on drained queue: %v", err)
	}
	if job != nil {
		t.Errorf("expected drained queue, got %+v", job)
	}
}

func TestNextPendingSkipsTerminalButNotActiveJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	active := testsupport.Enqueue(t, st, testsupport.NewJobSpec())
	testsupport.Enqueue(t, st, testsupport.NewJobSpec())

	// Non-terminal events keep the head job at the head.
	if _, err := st.AppendEvent(ctx, lifecycle.Event{
		JobID:     active.ID,
		Type:      lifecycle.EventValidationStarted,
		ClipIndex: lifecycle.NoClip,
	}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	job, err := st.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if job == nil || job.ID != active.ID {
		t.Fatalf("an in-flight job must stay at the queue head, got %+v", job)
	}
}

func TestEventsAreAppendOnlyAndOrdered(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	spec := testsupport.NewJobSpec()
	testsupport.Enqueue(t, st, spec)

	sequence := []lifecycle.EventType{
		lifecycle.EventValidationStarted,
		lifecycle.EventValidationSucceeded,
		lifecycle.EventExecutionStarted,
		lifecycle.EventJobCompleted,
	}
	for _, eventType := range sequence {
		stored, err := st.AppendEvent(ctx, lifecycle.Event{
			JobID:     spec.ID,
			Type:      eventType,
			ClipIndex: lifecycle.NoClip,
		})
		if err != nil {
			t.Fatalf("AppendEvent %s: %v", eventType, err)
		}
		if stored.Seq == 0 {
			t.Errorf("event %s got no sequence number", eventType)
		}
		if stored.CreatedAt.IsZero() {
			t.Errorf("event %s got no timestamp", eventType)
		}
	}

	events, err := st.Events(ctx, spec.ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != len(sequence) {
		t.Fatalf("expected %d events, got %d", len(sequence), len(events))
	}
	for i, event := range events {
		if event.Type != sequence[i] {
			t.Errorf("event %d: expected %s, got %s", i, sequence[i], event.Type)
		}
		if i > 0 && events[i-1].Seq >= event.Seq {
			t.Errorf("event %d: sequence not increasing (%d then %d)", i, events[i-1].Seq, event.Seq)
		}
	}

	derivation, err := st.DeriveState(ctx, spec.ID)
	if err != nil {
		t.Fatalf("DeriveState: %v", err)
	}
	if derivation.State != lifecycle.StateCompleted {
		t.Errorf("derived state: expected completed, got %s", derivation.State)
	}
}

func TestAppendEventRejectsUnknownType(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.AppendEvent(context.Background(), lifecycle.Event{
		JobID:     "job-x",
		Type:      "job_paused",
		ClipIndex: lifecycle.NoClip,
	})
	if err == nil {
		t.Fatal("expected rejection of an unknown event type")
	}
}

func TestHasEvent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	spec := testsupport.NewJobSpec()
	testsupport.Enqueue(t, st, spec)

	has, err := st.HasEvent(ctx, spec.ID, lifecycle.EventJobCancelled)
	if err != nil {
		t.Fatalf("HasEvent: %v", err)
	}
	if has {
		t.Error("no cancel recorded yet")
	}

	if _, err := st.AppendEvent(ctx, lifecycle.Event{
		JobID:     spec.ID,
		Type:      lifecycle.EventJobCancelled,
		ClipIndex: lifecycle.NoClip,
	}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	has, err = st.HasEvent(ctx, spec.ID, lifecycle.EventJobCancelled)
	if err != nil {
		t.Fatalf("HasEvent: %v", err)
	}
	if !has {
		t.Error("cancel event not visible")
	}
}

func TestSaveResultIsInsertOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	spec := testsupport.NewJobSpec()
	testsupport.Enqueue(t, st, spec)

	result := &execution.JobResult{
		JobID:   spec.ID,
		Outcome: failure.OutcomeCompleted,
	}
	if err := st.SaveResult(ctx, result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	overwrite := &execution.JobResult{
		JobID:   spec.ID,
		Outcome: failure.OutcomeFailed,
	}
	err := st.SaveResult(ctx, overwrite)
	if err == nil {
		t.Fatal("expected second save to fail")
	}
	if !strings.Contains(err.Error(), "already has a result") {
		t.Errorf("unexpected error: %v", err)
	}

	stored, err := st.GetResult(ctx, spec.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if stored.Outcome != failure.OutcomeCompleted {
		t.Errorf("first result must win, got %s", stored.Outcome)
	}
}

func TestGetResultMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	result, err := st.GetResult(context.Background(), "no-such-job")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestHealthCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, st, testsupport.NewJobSpec()) // stays pending
	running := testsupport.Enqueue(t, st, testsupport.NewJobSpec())
	completed := testsupport.Enqueue(t, st, testsupport.NewJobSpec())
	failed := testsupport.Enqueue(t, st, testsupport.NewJobSpec())
	cancelled := testsupport.Enqueue(t, st, testsupport.NewJobSpec())

	appendType := func(jobID string, eventType lifecycle.EventType) {
		t.Helper()
		if _, err := st.AppendEvent(ctx, lifecycle.Event{
			JobID:     jobID,
			Type:      eventType,
			ClipIndex: lifecycle.NoClip,
		}); err != nil {
			t.Fatalf("AppendEvent %s: %v", eventType, err)
		}
	}

	appendType(running.ID, lifecycle.EventValidationStarted)
	appendType(completed.ID, lifecycle.EventJobCompleted)
	appendType(failed.ID, lifecycle.EventJobFailed)
	appendType(cancelled.ID, lifecycle.EventJobCancelled)

	summary, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if summary.Total != 5 {
		t.Errorf("total: expected 5, got %d", summary.Total)
	}
	if summary.Pending != 1 || summary.Running != 1 || summary.Completed != 1 || summary.Failed != 1 || summary.Cancelled != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
