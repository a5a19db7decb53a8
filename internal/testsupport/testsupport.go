package testsupport

import (
	"path/filepath"
	"testing"

	"aquarius/internal/config"
	"aquarius/internal/packages"
)

// NewConfig returns a config rooted in a per-test temporary directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Aurora.BaseURL = "http://aurora.test"
	cfg.Aurora.Username = "aquarius"
	cfg.Aurora.Password = "secret"
	cfg.ArchivesSpace.BaseURL = "http://archivesspace.test"
	cfg.ArchivesSpace.Username = "admin"
	cfg.ArchivesSpace.Password = "admin"
	cfg.ArchivesSpace.ResourceRef = "/repositories/2/resources/1"
	return &cfg
}

// MustOpenStore opens a package store for the config and closes it when the
// test ends.
func MustOpenStore(t *testing.T, cfg *config.Config) *packages.Store {
	t.Helper()
	store, err := packages.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}
