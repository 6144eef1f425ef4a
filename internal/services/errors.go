package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers used to tag errors for later classification. Wrap an error
// with exactly one marker; the dispatcher and CLI use errors.Is against these
// to decide how a failure is surfaced.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrCancelled     = errors.New("cancelled")
	ErrTransient     = errors.New("transient failure")
)

// Envelope carries structured context recovered from a wrapped error.
type Envelope struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Hint      string
	Cause     error
}

type wrappedError struct {
	envelope Envelope
}

func (e *wrappedError) Error() string {
	detail := buildDetail(e.envelope.Stage, e.envelope.Operation, e.envelope.Message)
	if e.envelope.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.envelope.Marker, detail, e.envelope.Cause)
	}
	return fmt.Sprintf("%s: %s", e.envelope.Marker, detail)
}

func (e *wrappedError) Unwrap() []error {
	if e.envelope.Cause != nil {
		return []error{e.envelope.Marker, e.envelope.Cause}
	}
	return []error{e.envelope.Marker}
}

// Wrap builds an error that includes stage context while tagging it with the
// provided marker. The marker should be one of the exported sentinels above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &wrappedError{envelope: Envelope{
		Marker:    marker,
		Stage:     stage,
		Operation: operation,
		Message:   message,
		Cause:     err,
	}}
}

// WrapHint is Wrap with an operator-facing next step attached.
func WrapHint(marker error, stage, operation, message, hint string, err error) error {
	wrapped := Wrap(marker, stage, operation, message, err).(*wrappedError)
	wrapped.envelope.Hint = hint
	return wrapped
}

// Details recovers the structured envelope from an error chain. Errors that
// were never wrapped come back with ErrTransient and the raw message.
func Details(err error) Envelope {
	var wrapped *wrappedError
	if errors.As(err, &wrapped) {
		return wrapped.envelope
	}
	env := Envelope{Marker: ErrTransient, Cause: err}
	if err != nil {
		env.Message = err.Error()
	}
	return env
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
