package main

import (
	"fmt"
	"log/slog"

	"aquarius/internal/agents"
	"aquarius/internal/archivesspace"
	"aquarius/internal/aurora"
	"aquarius/internal/config"
	"aquarius/internal/logging"
	"aquarius/internal/notifications"
	"aquarius/internal/packages"
	"aquarius/internal/pipeline"
)

// commandContext carries lazily-loaded shared state between commands.
type commandContext struct {
	configFlag *string

	cfg        *config.Config
	cfgPath    string
	cfgMissing bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolved, missing, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = resolved
	c.cfgMissing = missing
	return cfg, nil
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

func (c *commandContext) openStore() (*packages.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return packages.Open(cfg)
}

// buildEngine wires the full pipeline: store, both system clients, the agent
// resolver and the notifier.
func (c *commandContext) buildEngine(store *packages.Store, logger *slog.Logger) (*pipeline.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration incomplete: %w", err)
	}

	target := archivesspace.NewClient(cfg, logger)
	return pipeline.New(pipeline.Options{
		Store:       store,
		Source:      aurora.NewClient(cfg, logger),
		Target:      target,
		Resolver:    agents.NewResolver(target, logger),
		ResourceRef: cfg.ArchivesSpace.ResourceRef,
		Logger:      logger,
		Notifier:    notifications.NewService(cfg),
	}), nil
}
