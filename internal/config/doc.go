// Package config loads, validates and defaults the TOML configuration for
// the aquarius pipeline.
package config
