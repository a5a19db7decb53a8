package pipeline

import (
	"context"
	"errors"
	"fmt"

	"aquarius/internal/archivesspace"
	"aquarius/internal/mapping"
	"aquarius/internal/packages"
	"aquarius/internal/services"
)

// maxAccessionNumberAttempts bounds the in-process retry when the drawn
// accession number collides with a concurrent writer's.
const maxAccessionNumberAttempts = 10

// applyAccession creates the accession record for a package's group. The
// first package in a group does the work; later siblings adopt the group's
// accession data instead of creating a second record.
func applyAccession(ctx context.Context, e *Engine, pkg *packages.Package) error {
	if err := e.refreshTransfer(ctx, StageAccession, pkg); err != nil {
		return err
	}

	// Already linked, via a previous partial run or sibling propagation.
	if pkg.AccessionData != nil && pkg.AccessionData.ArchivesSpaceIdentifier != "" {
		return nil
	}

	if key := pkg.GroupKey(); key != "" {
		sibling, err := e.store.FindSiblingWithAccessionData(ctx, key, pkg.ID)
		if err != nil {
			return services.Wrap(services.ErrTransient, StageAccession, "sibling lookup", "find accession data", err)
		}
		if sibling != nil && sibling.AccessionData != nil && sibling.AccessionData.ArchivesSpaceIdentifier != "" {
			pkg.AccessionData = sibling.AccessionData.Clone()
			return nil
		}
	}

	var record packages.AccessionRecord
	if pkg.Data.Accession == "" {
		return services.Wrap(services.ErrValidation, StageAccession, "fetch", "transfer has no accession reference", nil)
	}
	if err := e.source.Retrieve(ctx, pkg.Data.Accession, &record); err != nil {
		return services.Wrap(services.ErrExternalService, StageAccession, "fetch", "retrieve accession record", err)
	}
	if record.Resource == "" {
		record.Resource = e.resourceRef
	}

	agents, err := e.resolver.ResolveAll(ctx, record.Creators, "creator")
	if err != nil {
		return services.Wrap(services.ErrExternalService, StageAccession, "agents", "resolve creators", err)
	}

	ref, number, err := e.createAccession(ctx, &record, agents)
	if err != nil {
		return err
	}
	record.ArchivesSpaceIdentifier = ref
	record.AccessionNumber = number
	pkg.AccessionData = &record

	e.propagateAccessionData(ctx, pkg)
	return nil
}

// createAccession draws the next accession number and creates the record,
// bumping the sequence segment and retrying on a number collision. The read
// of the current highest number is not transactional, so collisions are an
// expected race, not a fault.
func (e *Engine) createAccession(ctx context.Context, record *packages.AccessionRecord, agents []archivesspace.LinkedAgent) (string, string, error) {
	year, sequence, err := e.target.NextAccessionNumber(ctx)
	if err != nil {
		return "", "", services.Wrap(services.ErrExternalService, StageAccession, "number", "next accession number", err)
	}

	for attempt := 1; attempt <= maxAccessionNumberAttempts; attempt++ {
		segments := []string{year, sequence}
		payload, err := mapping.Accession(record, segments, agents)
		if err != nil {
			return "", "", services.Wrap(services.ErrValidation, StageAccession, "map", "build accession payload", err)
		}

		ref, err := e.target.Create(ctx, archivesspace.KindAccession, payload)
		if err == nil {
			return ref, mapping.JoinAccessionNumber(segments), nil
		}
		if !errors.Is(err, archivesspace.ErrDuplicateAccessionNumber) {
			return "", "", services.Wrap(services.ErrExternalService, StageAccession, "create", "create accession", err)
		}

		sequence, err = archivesspace.BumpSequence(sequence)
		if err != nil {
			return "", "", services.Wrap(services.ErrValidation, StageAccession, "number", "bump sequence", err)
		}
	}
	return "", "", services.Wrap(services.ErrValidation, StageAccession, "create",
		fmt.Sprintf("accession number still colliding after %d attempts", maxAccessionNumberAttempts), nil)
}
