package pipeline

import (
	"context"

	"aquarius/internal/archivesspace"
	"aquarius/internal/mapping"
	"aquarius/internal/packages"
	"aquarius/internal/services"
)

// applyTransferComponent creates the file-level archival object for one
// transfer, parented under the group's component. Rows sharing a bag
// identifier describe the same transfer and share the resulting reference.
func applyTransferComponent(ctx context.Context, e *Engine, pkg *packages.Package) error {
	if err := e.refreshTransfer(ctx, StageTransferComponent, pkg); err != nil {
		return err
	}
	if pkg.Data.ArchivesSpaceIdentifier != "" {
		return nil
	}

	resource := e.resourceRef
	if pkg.AccessionData != nil && pkg.AccessionData.Resource != "" {
		resource = pkg.AccessionData.Resource
	}
	payload, err := mapping.TransferComponent(pkg.Data, resource)
	if err != nil {
		return services.Wrap(services.ErrValidation, StageTransferComponent, "map", "build component payload", err)
	}

	ref, err := e.target.Create(ctx, archivesspace.KindComponent, payload)
	if err != nil {
		return services.Wrap(services.ErrExternalService, StageTransferComponent, "create", "create transfer component", err)
	}
	pkg.Data.ArchivesSpaceIdentifier = ref

	e.propagateComponentIdentifier(ctx, pkg, ref)
	return nil
}
