package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"aquarius/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, missing, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !missing {
		t.Fatal("expected missing=true for absent file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8006" {
		t.Fatalf("unexpected default bind %q", cfg.Paths.APIBind)
	}
	if cfg.ArchivesSpace.RepositoryID != 2 {
		t.Fatalf("unexpected default repository %d", cfg.ArchivesSpace.RepositoryID)
	}
	if cfg.Workflow.PollInterval != 300 {
		t.Fatalf("unexpected default poll interval %d", cfg.Workflow.PollInterval)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_level = "debug"

[paths]
data_dir = "/tmp/aquarius-test"

[aurora]
base_url = "http://aurora.test/"
username = "svc"
password = "pw"

[archivesspace]
base_url = "http://as.test/"
username = "admin"
password = "admin"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, missing, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if missing {
		t.Fatal("file exists, missing should be false")
	}
	if cfg.Aurora.BaseURL != "http://aurora.test" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.Aurora.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
	if cfg.Aurora.RequestTimeout != 30 {
		t.Fatalf("zero timeout should take the default, got %d", cfg.Aurora.RequestTimeout)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_format = "xml"

[paths]
data_dir = "/tmp/aquarius-test"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s not created: %v", dir, err)
		}
	}
}
