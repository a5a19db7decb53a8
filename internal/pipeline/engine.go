package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aquarius/internal/archivesspace"
	"aquarius/internal/logging"
	"aquarius/internal/notifications"
	"aquarius/internal/packages"
	"aquarius/internal/services"
)

// SourceClient is the subset of the Aurora client the engine needs.
type SourceClient interface {
	FindBagByID(ctx context.Context, identifier string, out any) error
	Retrieve(ctx context.Context, rawURL string, out any) error
	Update(ctx context.Context, rawURL string, record any) error
}

// TargetClient is the subset of the ArchivesSpace client the engine needs.
type TargetClient interface {
	Create(ctx context.Context, kind string, payload any) (string, error)
	Update(ctx context.Context, ref string, payload any) (string, error)
	RetrieveJSON(ctx context.Context, ref string) (map[string]any, error)
	GetOrCreate(ctx context.Context, kind, field, value string, since time.Time, payload any) (string, error)
	NextAccessionNumber(ctx context.Context) (string, string, error)
}

// AgentResolver resolves creator descriptions into linked-agent entries.
type AgentResolver interface {
	ResolveAll(ctx context.Context, creators []packages.Creator, role string) ([]archivesspace.LinkedAgent, error)
}

// Options carries the engine's injected dependencies.
type Options struct {
	Store       *packages.Store
	Source      SourceClient
	Target      TargetClient
	Resolver    AgentResolver
	ResourceRef string
	Logger      *slog.Logger
	Notifier    notifications.Service
}

// Engine drives packages through the stage sequence. Runs are batch
// sequential: one stage at a time, one package at a time, each package's
// outcome independent of the others.
type Engine struct {
	store       *packages.Store
	source      SourceClient
	target      TargetClient
	resolver    AgentResolver
	resourceRef string
	logger      *slog.Logger
	notifier    notifications.Service
}

// New constructs an engine from its dependencies.
func New(opts Options) *Engine {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	return &Engine{
		store:       opts.Store,
		source:      opts.Source,
		target:      opts.Target,
		resolver:    opts.Resolver,
		resourceRef: opts.ResourceRef,
		logger:      logging.NewComponentLogger(opts.Logger, "pipeline"),
		notifier:    notifier,
	}
}

// RunStage processes every package sitting at the stage's start status. Each
// package is re-fetched before mutation, advanced on success, and skipped
// without error when another writer moved it first. Per-package errors are
// collected into the report; only stage-level failures return an error.
func (e *Engine) RunStage(ctx context.Context, name string) (*Report, error) {
	stage, err := StageByName(name)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, name, "lookup", "resolve stage", err)
	}

	batch, err := e.store.ListByStatus(ctx, stage.Start)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stage.Name, "list", "load batch", err)
	}

	report := &Report{Stage: stage.Name}
	stageCtx := services.WithStage(ctx, stage.Name)
	e.logger.Info("stage started",
		logging.String(logging.FieldStage, stage.Name),
		logging.String(logging.FieldEventType, "stage_start"),
		logging.Int("batch_size", len(batch)))

	for _, item := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkgCtx := services.WithPackageID(stageCtx, item.ID)
		if err := e.runOne(pkgCtx, stage, item.ID); err != nil {
			report.addFailure(item.ID, item.BagIdentifier, err)
			logging.WithContext(pkgCtx, e.logger).Error("package failed",
				logging.String(logging.FieldBagID, item.BagIdentifier),
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.Error(err))
			if notifyErr := e.notifier.NotifyError(ctx, err, stage.Name); notifyErr != nil {
				e.logger.Warn("notification failed", logging.Error(notifyErr))
			}
			continue
		}
		report.addProcessed(item.BagIdentifier)
	}

	report.finalize()
	e.logger.Info("stage completed",
		logging.String(logging.FieldStage, stage.Name),
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("processed", len(report.Processed)),
		logging.Int("failed", len(report.Failures)))
	if err := e.notifier.NotifyStageCompleted(ctx, stage.Name, len(report.Processed), len(report.Failures)); err != nil {
		e.logger.Warn("notification failed", logging.Error(err))
	}
	return report, nil
}

// RunAll runs every stage once, in pipeline order.
func (e *Engine) RunAll(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, 0, len(stages))
	for _, stage := range stages {
		report, err := e.RunStage(ctx, stage.Name)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// runOne re-fetches the package, applies the stage, and persists the
// advanced status. A package that moved off the start status since the batch
// was listed is skipped.
func (e *Engine) runOne(ctx context.Context, stage Stage, id int64) error {
	pkg, err := e.store.GetByID(ctx, id)
	if err != nil {
		return services.Wrap(services.ErrTransient, stage.Name, "refetch", "load package", err)
	}
	if pkg == nil || pkg.ProcessStatus != stage.Start {
		return nil
	}

	if err := stage.Apply(ctx, e, pkg); err != nil {
		return err
	}

	pkg.Advance(stage.End)
	if err := e.store.Update(ctx, pkg); err != nil {
		return services.Wrap(services.ErrTransient, stage.Name, "persist", "save package", err)
	}
	return nil
}

// refreshTransfer reloads the package's bag record from the source system,
// carrying over the target-system references accumulated so far. Source
// fields always reflect the latest upstream state at stage time.
func (e *Engine) refreshTransfer(ctx context.Context, stageName string, pkg *packages.Package) error {
	var record packages.TransferRecord
	if err := e.source.FindBagByID(ctx, pkg.BagIdentifier, &record); err != nil {
		return services.Wrap(services.ErrExternalService, stageName, "refresh",
			fmt.Sprintf("fetch bag %q", pkg.BagIdentifier), err)
	}
	if pkg.Data != nil {
		record.ArchivesSpaceIdentifier = pkg.Data.ArchivesSpaceIdentifier
		record.ArchivesSpaceParentIdentifier = pkg.Data.ArchivesSpaceParentIdentifier
		record.ProcessStatus = pkg.Data.ProcessStatus
	}
	pkg.Data = &record
	return nil
}
