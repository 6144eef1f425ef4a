package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapTagsWithMarker(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrExternalTool, "dispatch", "invoke ffmpeg", "encode failed", cause)

	if !errors.Is(err, ErrExternalTool) {
		t.Error("wrapped error lost its marker")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("wrapped error matched a foreign marker")
	}

	msg := err.Error()
	for _, fragment := range []string{"dispatch", "invoke ffmpeg", "encode failed", "disk full"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("message %q missing %q", msg, fragment)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "queue", "poll", "backend unreachable", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should default to ErrTransient")
	}
}

func TestDetailsRecoversEnvelope(t *testing.T) {
	cause := fmt.Errorf("no such job")
	err := WrapHint(ErrNotFound, "cancel", "lookup", "job missing", "check 'shuttle queue list'", cause)

	env := Details(err)
	if env.Marker != ErrNotFound {
		t.Errorf("marker: expected ErrNotFound, got %v", env.Marker)
	}
	if env.Stage != "cancel" || env.Operation != "lookup" {
		t.Errorf("stage/operation lost: %+v", env)
	}
	if env.Hint != "check 'shuttle queue list'" {
		t.Errorf("hint lost: %q", env.Hint)
	}
	if env.Cause != cause {
		t.Errorf("cause lost: %v", env.Cause)
	}
}

func TestDetailsOnPlainError(t *testing.T) {
	plain := fmt.Errorf("plain failure")
	env := Details(plain)
	if env.Marker != ErrTransient {
		t.Errorf("unwrapped errors should classify as transient, got %v", env.Marker)
	}
	if env.Message != "plain failure" {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestDetailsThroughFmtWrapping(t *testing.T) {
	inner := Wrap(ErrConfiguration, "startup", "load config", "bad poll interval", nil)
	outer := fmt.Errorf("daemon start: %w", inner)

	if !errors.Is(outer, ErrConfiguration) {
		t.Error("marker should survive fmt wrapping")
	}
	env := Details(outer)
	if env.Stage != "startup" {
		t.Errorf("envelope should survive fmt wrapping, got %+v", env)
	}
}
