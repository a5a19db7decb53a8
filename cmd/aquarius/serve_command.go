package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"aquarius/internal/api"
	"aquarius/internal/logging"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	var noPoll bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the scheduled batch runner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			// One batch runner per data directory. A second serve process
			// against the same store would race the stage loops.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "aquarius.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another aquarius instance holds %s", lock.Path())
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := cmdCtx.newLogger()
			if err != nil {
				return err
			}
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			engine, err := cmdCtx.buildEngine(store, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !noPoll {
				interval := time.Duration(cfg.Workflow.PollInterval) * time.Second
				go pollLoop(ctx, engine, interval, logger)
			}

			server := api.NewServer(cfg, store, engine, logger)
			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().BoolVar(&noPoll, "no-poll", false, "Serve the API without the scheduled batch runner")
	return cmd
}

// pollLoop runs every stage in order on a fixed interval until ctx ends.
func pollLoop(ctx context.Context, runner api.StageRunner, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := runner.RunAll(ctx); err != nil {
				logger.Error("scheduled run failed", logging.Error(err))
			}
		}
	}
}
