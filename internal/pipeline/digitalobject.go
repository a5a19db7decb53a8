package pipeline

import (
	"context"

	"aquarius/internal/archivesspace"
	"aquarius/internal/mapping"
	"aquarius/internal/packages"
	"aquarius/internal/services"
)

// applyDigitalObject creates the digital object for the package's stored
// files and links it to the transfer component as a new instance. AIP and
// DIP rows for the same bag each contribute their own digital object to the
// shared component.
func applyDigitalObject(ctx context.Context, e *Engine, pkg *packages.Package) error {
	if pkg.Data == nil || pkg.Data.ArchivesSpaceIdentifier == "" {
		return services.Wrap(services.ErrValidation, StageDigitalObject, "precondition", "package has no transfer component reference", nil)
	}

	payload, err := mapping.DigitalObject(pkg.FedoraURI, pkg.UseStatement())
	if err != nil {
		return services.Wrap(services.ErrValidation, StageDigitalObject, "map", "build digital object payload", err)
	}

	ref, err := e.target.Create(ctx, archivesspace.KindDigitalObject, payload)
	if err != nil {
		return services.Wrap(services.ErrExternalService, StageDigitalObject, "create", "create digital object", err)
	}

	component, err := e.target.RetrieveJSON(ctx, pkg.Data.ArchivesSpaceIdentifier)
	if err != nil {
		return services.Wrap(services.ErrExternalService, StageDigitalObject, "link", "retrieve transfer component", err)
	}
	instances, _ := component["instances"].([]any)
	component["instances"] = append(instances, archivesspace.NewDigitalObjectInstance(ref))

	if _, err := e.target.Update(ctx, pkg.Data.ArchivesSpaceIdentifier, component); err != nil {
		return services.Wrap(services.ErrExternalService, StageDigitalObject, "link", "update transfer component", err)
	}
	return nil
}
