package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(base, "data") + `"
log_dir = "` + filepath.Join(base, "logs") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunCommandRequiresStageOrAll(t *testing.T) {
	path := writeTestConfig(t)
	if _, err := executeCommand(t, "--config", path, "run"); err == nil {
		t.Fatal("expected error without a stage name")
	}
	if _, err := executeCommand(t, "--config", path, "run", "accession", "--all"); err == nil {
		t.Fatal("expected error combining a stage with --all")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should name the target, got %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample not written: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestQueueStatusEmptyStore(t *testing.T) {
	path := writeTestConfig(t)
	out, err := executeCommand(t, "--config", path, "queue", "status")
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	if !strings.Contains(out, "total") {
		t.Fatalf("expected summary output, got %q", out)
	}
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(base, "data") + `"

[aurora]
password = "hunter2"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "hunter2") {
		t.Fatal("password leaked into output")
	}
	if !strings.Contains(out, "<redacted>") {
		t.Fatalf("expected redaction marker, got %q", out)
	}
}
