package config

import (
	"fmt"
	"strings"
)

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must be set")
	}
	if c.ArchivesSpace.RepositoryID <= 0 {
		problems = append(problems, "archivesspace.repository_id must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q is not supported", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
