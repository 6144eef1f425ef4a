package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shuttle/internal/config"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "shuttle.log")
	logger, err := New(Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("queue drained", String(FieldComponent, "dispatcher"), Int("jobs", 3))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, fragment := range []string{"INFO", "queue drained", "[dispatcher]", "jobs=3"} {
		if !strings.Contains(line, fragment) {
			t.Errorf("log line %q missing %q", line, fragment)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shuttle.log")
	logger, err := New(Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("clip dispatched",
		String(FieldJobID, "job-1"),
		Int(FieldClipIndex, 0))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if record["msg"] != "clip dispatched" {
		t.Errorf("msg: got %v", record["msg"])
	}
	if record[FieldJobID] != "job-1" {
		t.Errorf("%s: got %v", FieldJobID, record[FieldJobID])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "logfmt"}); err == nil {
		t.Fatal("expected rejection of an unknown format")
	}
}

func TestLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shuttle.log")
	logger, err := New(Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("kept")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Error("info record leaked past a warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("warn record missing")
	}
}

func TestNewFromConfigCreatesLogDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "info"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("started")

	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "shuttle.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestWithComponentNilLogger(t *testing.T) {
	logger := WithComponent(nil, "store")
	// Must be usable without panicking.
	logger.Info("noop")
}

func TestErrorAttr(t *testing.T) {
	if attr := Error(nil); attr.Value.String() != "<nil>" {
		t.Errorf("nil error attr: got %v", attr.Value)
	}
}
