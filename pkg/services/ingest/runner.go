package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/roi-atlas/pkg/adapters"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite/campaign"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result describes a completed ingestion batch.
type Result struct {
	BatchID  string
	Records  int
	Duration time.Duration
}

// Runner copies campaign records from sources into the local store.
type Runner struct {
	db       *sql.DB
	registry source.Registry
	store    campaign.Store
	newID    func() string
	now      func() time.Time
}

func NewRunner(db *sql.DB, registry source.Registry, store campaign.Store) *Runner {
	return &Runner{
		db:       db,
		registry: registry,
		store:    store,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Ingest loads every source and writes all records as a single batch. Nothing is
// written when any source fails.
func (r *Runner) Ingest(ctx context.Context, specs []domain.SourceSpec) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	start := r.now()

	records, err := source.LoadAll(ctx, r.registry, specs)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	batchID := r.newID()
	err = sqlite.InTransaction(ctx, r.db, func(ctx context.Context) error {
		return r.store.Add(ctx, batchID, adapters.MapDomainRecordsToStore(records))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store campaign records: %w", err)
	}

	result := &Result{BatchID: batchID, Records: len(records), Duration: r.now().Sub(start)}
	logger.Info().
		Str("batch_id", batchID).
		Int("records", result.Records).
		Dur("duration", result.Duration).
		Msg("campaign records ingested")

	return result, nil
}

// DeleteBatch removes every record written by one ingestion batch.
func (r *Runner) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	var deleted int64
	err := sqlite.InTransaction(ctx, r.db, func(ctx context.Context) error {
		n, err := r.store.DeleteBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchID)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	zerolog.Ctx(ctx).Info().
		Str("batch_id", batchID).
		Int64("records", deleted).
		Msg("ingestion batch deleted")
	return deleted, nil
}
