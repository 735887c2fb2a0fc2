package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite/campaign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	records []domain.CampaignRecord
	err     error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Load(context.Context) ([]domain.CampaignRecord, error) { return s.records, s.err }

func (s stubSource) Close() error { return nil }

func newRunner(t *testing.T) (*Runner, campaign.Store) {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := campaign.NewStore(db)
	require.NoError(t, err)

	reg := source.NewRegistry(map[domain.SourceKind]source.Factory{
		domain.SourceKindCSV: func(_ context.Context, spec domain.SourceSpec) (source.Source, error) {
			switch spec.Location {
			case "ok.csv":
				return stubSource{records: []domain.CampaignRecord{
					{Channel: "Email", Spend: 10, Revenue: 30},
					{Channel: "Search", Spend: 20, Revenue: 25},
				}}, nil
			case "empty.csv":
				return stubSource{}, nil
			default:
				return stubSource{err: errors.New("unreadable")}, nil
			}
		},
	})

	r := NewRunner(db, reg, store)
	r.newID = func() string { return "batch-1" }
	return r, store
}

func TestRunner_Ingest(t *testing.T) {
	r, store := newRunner(t)
	ctx := context.Background()

	res, err := r.Ingest(ctx, []domain.SourceSpec{{Kind: domain.SourceKindCSV, Location: "ok.csv"}})
	require.NoError(t, err)
	assert.Equal(t, "batch-1", res.BatchID)
	assert.Equal(t, 2, res.Records)

	stored, err := store.List(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRunner_Ingest_Failures(t *testing.T) {
	r, store := newRunner(t)
	ctx := context.Background()

	_, err := r.Ingest(ctx, []domain.SourceSpec{
		{Kind: domain.SourceKindCSV, Location: "ok.csv"},
		{Kind: domain.SourceKindCSV, Location: "broken.csv"},
	})
	require.Error(t, err)

	_, err = r.Ingest(ctx, []domain.SourceSpec{{Kind: domain.SourceKindCSV, Location: "empty.csv"}})
	assert.ErrorIs(t, err, domain.ErrNoRecords)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.RecordsCount)
}

func TestRunner_DeleteBatch(t *testing.T) {
	r, store := newRunner(t)
	ctx := context.Background()

	_, err := r.Ingest(ctx, []domain.SourceSpec{{Kind: domain.SourceKindCSV, Location: "ok.csv"}})
	require.NoError(t, err)

	deleted, err := r.DeleteBatch(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.RecordsCount)

	_, err = r.DeleteBatch(ctx, "batch-1")
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}
