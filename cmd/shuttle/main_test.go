package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		`output_dir = "` + filepath.Join(base, "output") + `"`,
		`staging_dir = "` + filepath.Join(base, "staging") + `"`,
		"",
	}, "\n")
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeJobSpec(t *testing.T, id, codec, container string) string {
	t.Helper()
	content := strings.Join([]string{
		"version = 1",
		`id = "` + id + `"`,
		`title = "CLI Test Job"`,
		"execution_requested = true",
		"",
		"[settings]",
		`video_target = "h265"`,
		`preset = "delivery"`,
		"",
		"[[clips]]",
		`source = "/media/in/clip.` + container + `"`,
		`codec = "` + codec + `"`,
		`container = "` + container + `"`,
		"width = 1920",
		"height = 1080",
		"",
	}, "\n")
	path := filepath.Join(t.TempDir(), "job.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write jobspec: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const testJobID = "3e1f7a52-9c04-4f6a-b2d1-8a5c3e9f0b47"

func TestCLIAddQueueShowCancel(t *testing.T) {
	configPath := writeTestConfig(t)
	specPath := writeJobSpec(t, testJobID, "h264", "mp4")

	out, _, err := runCLI(t, configPath, "add", specPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "admitted job "+testJobID) {
		t.Fatalf("unexpected add output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, testJobID) || !strings.Contains(out, "CLI Test Job") {
		t.Fatalf("queue list missing the job: %q", out)
	}
	if !strings.Contains(out, "created") {
		t.Fatalf("queue list should show the derived state: %q", out)
	}

	out, _, err = runCLI(t, configPath, "queue", "status")
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	if !strings.Contains(out, "pending") {
		t.Fatalf("unexpected queue status output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "show", testJobID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "state:    created") {
		t.Fatalf("show should report the derived state: %q", out)
	}
	if !strings.Contains(out, "no events recorded") {
		t.Fatalf("a fresh job has no events: %q", out)
	}

	out, _, err = runCLI(t, configPath, "cancel", testJobID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !strings.Contains(out, "cancel recorded") {
		t.Fatalf("unexpected cancel output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "show", testJobID)
	if err != nil {
		t.Fatalf("show after cancel: %v", err)
	}
	if !strings.Contains(out, "state:    cancelled") {
		t.Fatalf("cancelled state not shown: %q", out)
	}
	if !strings.Contains(out, "result: cancelled") {
		t.Fatalf("cancelled result not shown: %q", out)
	}

	// A second cancel must be rejected: the state is terminal.
	if _, _, err = runCLI(t, configPath, "cancel", testJobID); err == nil {
		t.Fatal("second cancel should fail")
	}
}

func TestCLIAddRefusesUnrequestedSpec(t *testing.T) {
	configPath := writeTestConfig(t)
	specPath := writeJobSpec(t, testJobID, "h264", "mp4")

	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("read spec: %v", err)
	}
	edited := strings.Replace(string(data), "execution_requested = true", "execution_requested = false", 1)
	if err := os.WriteFile(specPath, []byte(edited), 0o644); err != nil {
		t.Fatalf("rewrite spec: %v", err)
	}

	_, _, err = runCLI(t, configPath, "add", specPath)
	if err == nil {
		t.Fatal("add must refuse a spec that never asked to run")
	}
	if !strings.Contains(err.Error(), "execution_requested") {
		t.Errorf("error should name the flag, got %v", err)
	}
}

func TestCLIShowUnknownJob(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, _, err := runCLI(t, configPath, "show", "b0f4a3fd-0000-4000-8000-000000000000"); err == nil {
		t.Fatal("show of an unknown job should fail")
	}
}

func TestCLIClassifyReportsRouting(t *testing.T) {
	specPath := writeJobSpec(t, testJobID, "h264", "mp4")

	out, _, err := runCLI(t, "", "classify", specPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "engine ffmpeg") {
		t.Fatalf("classify should name the engine: %q", out)
	}
	if !strings.Contains(out, "transcode") {
		t.Fatalf("classify should name the execution class: %q", out)
	}
}

func TestCLIClassifyRejectsUnknownFormat(t *testing.T) {
	specPath := writeJobSpec(t, testJobID, "wavelet9", "bin")

	out, _, err := runCLI(t, "", "classify", specPath)
	if err == nil {
		t.Fatal("classify should fail for an undispatchable spec")
	}
	if !strings.Contains(out, "rejected") {
		t.Fatalf("classify should print the rejection: %q", out)
	}
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "", "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// Without --force a second init must refuse to overwrite.
	if _, _, err := runCLI(t, "", "config", "init", target); err == nil {
		t.Fatal("second init should fail without --force")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--force", target); err != nil {
		t.Fatalf("forced init: %v", err)
	}

	out, _, err = runCLI(t, target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "configuration is valid") {
		t.Fatalf("unexpected validate output: %q", out)
	}
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "shuttle") {
		t.Fatalf("unexpected version output: %q", out)
	}
}
