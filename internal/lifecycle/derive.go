package lifecycle

import "strings"

// State is the derived lifecycle state of a job.
type State string

const (
	StateCreated    State = "created"
	StateValidating State = "validating"
	StateDispatched State = "dispatched"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

var allStates = []State{
	StateCreated,
	StateValidating,
	StateDispatched,
	StateRunning,
	StateCompleted,
	StateFailed,
	StateCancelled,
}

// AllStates returns the ordered list of lifecycle states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StateCreated, StateValidating, StateDispatched, StateRunning,
		StateCompleted, StateFailed, StateCancelled:
		return normalized, true
	}
	return "", false
}

// Terminal reports whether a state accepts no further transitions.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Anomaly records an event that could not legally apply to the state the
// fold had reached. Anomalies never change state; they exist so out-of-order
// or post-terminal delivery is visible instead of silently absorbed.
type Anomaly struct {
	Event Event
	State State
}

// Derivation is the result of folding one job's event log.
type Derivation struct {
	State     State
	Anomalies []Anomaly
}

// Derive folds the ordered event log into the job's lifecycle state. The
// fold is pure and left-to-right: same log, same derivation, every time.
func Derive(events []Event) Derivation {
	state := StateCreated
	var anomalies []Anomaly

	for _, event := range events {
		next, ok := apply(state, event.Type)
		if !ok {
			anomalies = append(anomalies, Anomaly{Event: event, State: state})
			continue
		}
		state = next
	}

	return Derivation{State: state, Anomalies: anomalies}
}

// apply returns the state after one event, or ok=false when the event is not
// legal in the current state. Terminal states accept nothing.
func apply(state State, eventType EventType) (State, bool) {
	if state.Terminal() {
		return state, false
	}

	switch eventType {
	case EventJobCancelled:
		// Legal from any non-terminal state.
		return StateCancelled, true
	case EventJobFailed:
		// Any failure event in any non-terminal state fails the job.
		return StateFailed, true
	}

	switch state {
	case StateCreated:
		if eventType == EventValidationStarted {
			return StateValidating, true
		}
	case StateValidating:
		if eventType == EventValidationSucceeded {
			return StateDispatched, true
		}
	case StateDispatched:
		switch eventType {
		case EventExecutionStarted:
			return StateRunning, true
		case EventClipDispatched, EventClipCompleted, EventClipFailed:
			// Per-clip facts are recorded but do not move the job.
			return state, true
		}
	case StateRunning:
		switch eventType {
		case EventClipDispatched, EventClipCompleted, EventClipFailed:
			return state, true
		case EventJobCompleted:
			return StateCompleted, true
		}
	}

	return state, false
}
