package source

import (
	"context"
	"fmt"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LoadAll creates and loads every spec concurrently. Records are returned in spec
// order; the first failure cancels the remaining loads.
func LoadAll(ctx context.Context, registry Registry, specs []domain.SourceSpec) ([]domain.CampaignRecord, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one source must be provided")
	}

	results := make([][]domain.CampaignRecord, len(specs))
	g, gctx := errgroup.WithContext(ctx)

	for i, spec := range specs {
		g.Go(func() error {
			src, err := registry.Create(gctx, spec)
			if err != nil {
				return fmt.Errorf("failed to create source %s: %w", spec, err)
			}
			defer src.Close()

			records, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("failed to load source %s: %w", src.Name(), err)
			}

			zerolog.Ctx(ctx).Debug().
				Str("source", src.Name()).
				Int("records", len(records)).
				Msg("source loaded")

			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.CampaignRecord
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
