package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Aurora contains connection settings for the source system of record.
type Aurora struct {
	BaseURL        string `toml:"base_url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	RequestTimeout int    `toml:"request_timeout"`
}

// ArchivesSpace contains connection settings for the target
// archival-description system.
type ArchivesSpace struct {
	BaseURL        string `toml:"base_url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	RepositoryID   int    `toml:"repository_id"`
	ResourceRef    string `toml:"resource_ref"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	StageOutcomes  bool   `toml:"stage_outcomes"`
	Errors         bool   `toml:"errors"`
}

// Workflow contains timing configuration for the batch runner.
type Workflow struct {
	PollInterval int `toml:"poll_interval"`
}

// Config aggregates all application settings.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Aurora        Aurora        `toml:"aurora"`
	ArchivesSpace ArchivesSpace `toml:"archivesspace"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	LogLevel      string        `toml:"log_level"`
	LogFormat     string        `toml:"log_format"`
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return expandPath("~/.config/aquarius/config.toml")
}

// Load reads configuration from path, falling back to DefaultPath when path
// is empty. A missing file yields defaults and missing=true so callers can
// offer `config init`.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultPath()
	} else {
		resolved = expandPath(resolved)
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.normalize()
			return &cfg, resolved, true, nil
		}
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, false, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, false, err
	}
	return &cfg, resolved, false, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// clobber an existing file.
func WriteSample(path string) error {
	resolved := expandPath(path)
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("config file already exists at %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(resolved, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the data and log directories if absent.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Paths.DataDir = expandPath(c.Paths.DataDir)
	c.Paths.LogDir = expandPath(c.Paths.LogDir)
	c.Aurora.BaseURL = strings.TrimRight(strings.TrimSpace(c.Aurora.BaseURL), "/")
	c.ArchivesSpace.BaseURL = strings.TrimRight(strings.TrimSpace(c.ArchivesSpace.BaseURL), "/")
	if c.Aurora.RequestTimeout <= 0 {
		c.Aurora.RequestTimeout = defaultRequestTimeout
	}
	if c.ArchivesSpace.RequestTimeout <= 0 {
		c.ArchivesSpace.RequestTimeout = defaultRequestTimeout
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	if c.Workflow.PollInterval <= 0 {
		c.Workflow.PollInterval = defaultPollInterval
	}
}

func expandPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
		}
	}
	return trimmed
}
