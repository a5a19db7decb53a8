package pipeline

import (
	"context"

	"aquarius/internal/archivesspace"
	"aquarius/internal/mapping"
	"aquarius/internal/packages"
	"aquarius/internal/services"
)

// applyGroupingComponent creates the collection-level archival object that
// groups a package's transfers. One grouping component exists per accession
// group; the reference lands on every sibling's transfer record so later
// transfer components can parent themselves under it.
func applyGroupingComponent(ctx context.Context, e *Engine, pkg *packages.Package) error {
	if pkg.Data == nil {
		return services.Wrap(services.ErrValidation, StageGroupingComponent, "precondition", "package has no transfer data", nil)
	}
	if pkg.Data.ArchivesSpaceParentIdentifier != "" {
		return nil
	}
	if pkg.AccessionData == nil {
		return services.Wrap(services.ErrValidation, StageGroupingComponent, "precondition", "package has no accession data", nil)
	}

	// A sibling may already have created the group's component.
	if key := pkg.GroupKey(); key != "" {
		siblings, err := e.store.ListByGroupKey(ctx, key)
		if err != nil {
			return services.Wrap(services.ErrTransient, StageGroupingComponent, "sibling lookup", "list group", err)
		}
		for _, sibling := range siblings {
			if sibling.ID == pkg.ID || sibling.Data == nil {
				continue
			}
			if ref := sibling.Data.ArchivesSpaceParentIdentifier; ref != "" {
				pkg.Data.ArchivesSpaceParentIdentifier = ref
				return nil
			}
		}
	}

	agents, err := e.resolver.ResolveAll(ctx, pkg.AccessionData.Creators, "creator")
	if err != nil {
		return services.Wrap(services.ErrExternalService, StageGroupingComponent, "agents", "resolve creators", err)
	}

	resource := pkg.AccessionData.Resource
	if resource == "" {
		resource = e.resourceRef
	}
	payload, err := mapping.GroupingComponent(pkg.AccessionData, resource, agents)
	if err != nil {
		return services.Wrap(services.ErrValidation, StageGroupingComponent, "map", "build grouping payload", err)
	}

	ref, err := e.target.Create(ctx, archivesspace.KindGroupingComponent, payload)
	if err != nil {
		return services.Wrap(services.ErrExternalService, StageGroupingComponent, "create", "create grouping component", err)
	}
	pkg.Data.ArchivesSpaceParentIdentifier = ref

	e.propagateParentIdentifier(ctx, pkg, ref)
	return nil
}
