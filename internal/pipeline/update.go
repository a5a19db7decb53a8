package pipeline

import (
	"context"

	"aquarius/internal/packages"
	"aquarius/internal/services"
)

// Source-system process status codes embedded in the records sent back to
// Aurora: transfers are marked fully processed, accessions complete.
const (
	sourceTransferDone  = 90
	sourceAccessionDone = 30
)

// applyUpdateTransfer sends the enriched transfer record back to the source
// system, carrying the target-system references and the done status code.
func applyUpdateTransfer(ctx context.Context, e *Engine, pkg *packages.Package) error {
	if pkg.Data == nil || pkg.Data.URL == "" {
		return services.Wrap(services.ErrValidation, StageUpdateTransfer, "precondition", "package has no transfer record URL", nil)
	}
	pkg.Data.ProcessStatus = sourceTransferDone
	if err := e.source.Update(ctx, pkg.Data.URL, pkg.Data); err != nil {
		return services.Wrap(services.ErrExternalService, StageUpdateTransfer, "update", "send transfer update", err)
	}
	return nil
}

// applyUpdateAccession sends the enriched accession record back to the
// source system. Each sibling re-sends the shared record; the write is
// idempotent upstream.
func applyUpdateAccession(ctx context.Context, e *Engine, pkg *packages.Package) error {
	if pkg.AccessionData == nil || pkg.AccessionData.URL == "" {
		return services.Wrap(services.ErrValidation, StageUpdateAccession, "precondition", "package has no accession record URL", nil)
	}
	pkg.AccessionData.ProcessStatus = sourceAccessionDone
	if err := e.source.Update(ctx, pkg.AccessionData.URL, pkg.AccessionData); err != nil {
		return services.Wrap(services.ErrExternalService, StageUpdateAccession, "update", "send accession update", err)
	}
	return nil
}
