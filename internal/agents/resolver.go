package agents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aquarius/internal/archivesspace"
	"aquarius/internal/logging"
	"aquarius/internal/mapping"
	"aquarius/internal/packages"
)

// TargetClient is the subset of the target-system client the resolver needs.
type TargetClient interface {
	GetOrCreate(ctx context.Context, kind, field, value string, since time.Time, payload any) (string, error)
}

// Resolver turns agent descriptions into stable target-system references,
// creating agents that do not exist yet. There is no local cache: repeated
// resolution of the same agent performs a fresh lookup each time, relying on
// the target system's own index.
type Resolver struct {
	client TargetClient
	logger *slog.Logger
	now    func() time.Time
}

// NewResolver constructs a resolver around the given target client.
func NewResolver(client TargetClient, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logging.NewComponentLogger(logger, "agents"),
		now:    time.Now,
	}
}

// Resolve returns the target reference for one creator.
func (r *Resolver) Resolve(ctx context.Context, creator packages.Creator) (string, error) {
	kind, payload, err := mapping.MapAgent(creator)
	if err != nil {
		return "", err
	}
	ref, err := r.client.GetOrCreate(ctx, kind, "title", creator.Name, r.now(), payload)
	if err != nil {
		return "", fmt.Errorf("resolve agent %q: %w", creator.Name, err)
	}
	r.logger.Debug("agent resolved",
		logging.String("name", creator.Name),
		logging.String("type", creator.Type),
		logging.String("ref", ref))
	return ref, nil
}

// ResolveAll resolves every creator and returns linked-agent entries with
// the given role.
func (r *Resolver) ResolveAll(ctx context.Context, creators []packages.Creator, role string) ([]archivesspace.LinkedAgent, error) {
	if len(creators) == 0 {
		return nil, nil
	}
	linked := make([]archivesspace.LinkedAgent, 0, len(creators))
	for _, creator := range creators {
		ref, err := r.Resolve(ctx, creator)
		if err != nil {
			return nil, err
		}
		linked = append(linked, archivesspace.LinkedAgent{
			Role:  role,
			Terms: []string{},
			Ref:   ref,
		})
	}
	return linked, nil
}
