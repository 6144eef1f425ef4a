package lifecycle

import (
	"reflect"
	"testing"
)

func eventsOf(types ...EventType) []Event {
	events := make([]Event, len(types))
	for i, eventType := range types {
		events[i] = Event{Seq: int64(i + 1), JobID: "job-1", Type: eventType, ClipIndex: NoClip}
	}
	return events
}

func TestDeriveHappyPath(t *testing.T) {
	log := eventsOf(
		EventValidationStarted,
		EventValidationSucceeded,
		EventExecutionStarted,
		EventClipDispatched,
		EventClipCompleted,
		EventJobCompleted,
	)

	derivation := Derive(log)
	if derivation.State != StateCompleted {
		t.Fatalf("expected completed, got %s", derivation.State)
	}
	if len(derivation.Anomalies) != 0 {
		t.Errorf("unexpected anomalies: %v", derivation.Anomalies)
	}
}

func TestDeriveStateAtEachPrefix(t *testing.T) {
	log := eventsOf(
		EventValidationStarted,
		EventValidationSucceeded,
		EventExecutionStarted,
		EventJobCompleted,
	)
	expected := []State{
		StateCreated,
		StateValidating,
		StateDispatched,
		StateRunning,
		StateCompleted,
	}

	for i := 0; i <= len(log); i++ {
		derivation := Derive(log[:i])
		if derivation.State != expected[i] {
			t.Errorf("prefix %d: expected %s, got %s", i, expected[i], derivation.State)
		}
	}
}

func TestDeriveCancelFromAnyNonTerminalState(t *testing.T) {
	prefixes := [][]EventType{
		{},
		{EventValidationStarted},
		{EventValidationStarted, EventValidationSucceeded},
		{EventValidationStarted, EventValidationSucceeded, EventExecutionStarted},
		{EventValidationStarted, EventValidationSucceeded, EventExecutionStarted, EventClipDispatched},
	}

	for i, prefix := range prefixes {
		log := eventsOf(append(append([]EventType{}, prefix...), EventJobCancelled)...)
		derivation := Derive(log)
		if derivation.State != StateCancelled {
			t.Errorf("prefix %d: expected cancelled, got %s", i, derivation.State)
		}
		if len(derivation.Anomalies) != 0 {
			t.Errorf("prefix %d: unexpected anomalies: %v", i, derivation.Anomalies)
		}
	}
}

func TestDeriveFailureFromAnyNonTerminalState(t *testing.T) {
	log := eventsOf(EventValidationStarted, EventJobFailed)
	if derivation := Derive(log); derivation.State != StateFailed {
		t.Errorf("expected failed, got %s", derivation.State)
	}
}

func TestDeriveTerminalStatesAbsorbLaterEvents(t *testing.T) {
	log := eventsOf(
		EventValidationStarted,
		EventJobCancelled,
		EventValidationSucceeded,
		EventJobCompleted,
	)

	derivation := Derive(log)
	if derivation.State != StateCancelled {
		t.Fatalf("expected cancelled to stick, got %s", derivation.State)
	}
	if len(derivation.Anomalies) != 2 {
		t.Fatalf("expected 2 anomalies for post-terminal events, got %d", len(derivation.Anomalies))
	}
	for _, anomaly := range derivation.Anomalies {
		if anomaly.State != StateCancelled {
			t.Errorf("anomaly recorded in state %s, expected cancelled", anomaly.State)
		}
	}
}

func TestDeriveOutOfOrderEventIsAnomalyNotTransition(t *testing.T) {
	// execution_started before validation ever ran.
	log := eventsOf(EventExecutionStarted)
	derivation := Derive(log)
	if derivation.State != StateCreated {
		t.Errorf("expected state to stay created, got %s", derivation.State)
	}
	if len(derivation.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(derivation.Anomalies))
	}
}

func TestDeriveClipEventsDoNotMoveTheJob(t *testing.T) {
	log := eventsOf(
		EventValidationStarted,
		EventValidationSucceeded,
		EventClipDispatched,
		EventClipFailed,
	)
	derivation := Derive(log)
	if derivation.State != StateDispatched {
		t.Errorf("expected dispatched, got %s", derivation.State)
	}
	if len(derivation.Anomalies) != 0 {
		t.Errorf("unexpected anomalies: %v", derivation.Anomalies)
	}
}

func TestDeriveReplayIsIdempotent(t *testing.T) {
	log := eventsOf(
		EventValidationStarted,
		EventValidationSucceeded,
		EventExecutionStarted,
		EventClipDispatched,
		EventClipFailed,
		EventJobFailed,
	)

	first := Derive(log)
	for i := 0; i < 50; i++ {
		if again := Derive(log); !reflect.DeepEqual(first, again) {
			t.Fatalf("replay %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestDeriveEveryEventSequenceStaysInKnownStates(t *testing.T) {
	alphabet := []EventType{
		EventValidationStarted,
		EventValidationSucceeded,
		EventExecutionStarted,
		EventClipDispatched,
		EventClipCompleted,
		EventClipFailed,
		EventJobCompleted,
		EventJobFailed,
		EventJobCancelled,
	}
	known := make(map[State]struct{}, len(allStates))
	for _, state := range AllStates() {
		known[state] = struct{}{}
	}

	const maxLen = 4
	var walk func(types []EventType)
	walk = func(types []EventType) {
		log := eventsOf(types...)
		derivation := Derive(log)
		if _, ok := known[derivation.State]; !ok {
			t.Fatalf("sequence %v derived unknown state %q", types, derivation.State)
		}
		if again := Derive(log); !reflect.DeepEqual(derivation, again) {
			t.Fatalf("sequence %v: replay diverged: %+v vs %+v", types, again, derivation)
		}
		if len(types) == maxLen {
			return
		}
		for _, eventType := range alphabet {
			walk(append(types, eventType))
		}
	}
	walk(nil)
}

func TestDeriveEmptyLogIsCreated(t *testing.T) {
	derivation := Derive(nil)
	if derivation.State != StateCreated {
		t.Errorf("expected created, got %s", derivation.State)
	}
}

func TestParseEventType(t *testing.T) {
	if parsed, ok := ParseEventType(" Job_Completed "); !ok || parsed != EventJobCompleted {
		t.Errorf("expected job_completed, got %q ok=%v", parsed, ok)
	}
	if _, ok := ParseEventType("job_requeued"); ok {
		t.Error("unknown event type must not parse")
	}
}

func TestTerminalStates(t *testing.T) {
	for _, state := range AllStates() {
		terminal := state == StateCompleted || state == StateFailed || state == StateCancelled
		if state.Terminal() != terminal {
			t.Errorf("state %s: Terminal() = %v, expected %v", state, state.Terminal(), terminal)
		}
	}
}
