package pipeline

import (
	"context"

	"aquarius/internal/logging"
	"aquarius/internal/packages"
)

// Sibling propagation is best effort: the owning package's transition has
// already succeeded, and a sibling that misses the copy reconstructs it from
// the group when its own turn comes. Failures are logged, never fatal.

// propagateAccessionData copies the package's accession data to every group
// sibling.
func (e *Engine) propagateAccessionData(ctx context.Context, pkg *packages.Package) {
	e.forEachSibling(ctx, pkg, func(sibling *packages.Package) bool {
		sibling.AccessionData = pkg.AccessionData.Clone()
		return true
	})
}

// propagateParentIdentifier copies the grouping-component reference to every
// group sibling's transfer record.
func (e *Engine) propagateParentIdentifier(ctx context.Context, pkg *packages.Package, ref string) {
	e.forEachSibling(ctx, pkg, func(sibling *packages.Package) bool {
		if sibling.Data == nil || sibling.Data.ArchivesSpaceParentIdentifier == ref {
			return false
		}
		sibling.Data.ArchivesSpaceParentIdentifier = ref
		return true
	})
}

// propagateComponentIdentifier copies the transfer-component reference to
// the other rows sharing the package's bag identifier (its AIP/DIP pair).
func (e *Engine) propagateComponentIdentifier(ctx context.Context, pkg *packages.Package, ref string) {
	rows, err := e.store.ListByBagIdentifier(ctx, pkg.BagIdentifier)
	if err != nil {
		logging.WithContext(ctx, e.logger).Warn("bag sibling listing failed", logging.Error(err))
		return
	}
	for _, row := range rows {
		if row.ID == pkg.ID || row.Data == nil || row.Data.ArchivesSpaceIdentifier == ref {
			continue
		}
		row.Data.ArchivesSpaceIdentifier = ref
		if err := e.store.Update(ctx, row); err != nil {
			logging.WithContext(ctx, e.logger).Warn("bag sibling update failed",
				logging.Int64(logging.FieldPackageID, row.ID),
				logging.Error(err))
		}
	}
}

// forEachSibling applies mutate to every group sibling and persists the ones
// it changed.
func (e *Engine) forEachSibling(ctx context.Context, pkg *packages.Package, mutate func(*packages.Package) bool) {
	key := pkg.GroupKey()
	if key == "" {
		return
	}
	siblings, err := e.store.ListByGroupKey(ctx, key)
	if err != nil {
		logging.WithContext(ctx, e.logger).Warn("group listing failed", logging.Error(err))
		return
	}
	for _, sibling := range siblings {
		if sibling.ID == pkg.ID {
			continue
		}
		if !mutate(sibling) {
			continue
		}
		if err := e.store.Update(ctx, sibling); err != nil {
			logging.WithContext(ctx, e.logger).Warn("sibling update failed",
				logging.Int64(logging.FieldPackageID, sibling.ID),
				logging.Error(err))
		}
	}
}
