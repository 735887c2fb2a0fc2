package campaign

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/models/store"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite"
)

const dateLayout = "2006-01-02"

// Store persists ingested campaign records. Writes join the transaction carried
// by the context when there is one.
type Store interface {
	Add(ctx context.Context, batchID string, records []store.CampaignRecord) error
	List(ctx context.Context, filter domain.RecordFilter) ([]store.CampaignRecord, error)
	Stats(ctx context.Context) (*store.RecordStats, error)
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
}

type campaignStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &campaignStore{db: db, now: time.Now}, nil
}

func (s *campaignStore) Add(ctx context.Context, batchID string, records []store.CampaignRecord) error {
	if len(records) == 0 {
		return nil
	}
	if batchID == "" {
		return fmt.Errorf("batch id is required")
	}

	query := `
		INSERT INTO campaign_records (
			batch_id, date, campaign, channel, spend, revenue,
			impressions, clicks, conversions, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := sqlite.Executor(ctx, s.db).PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	ingestedAt := s.now().UTC().Format(time.RFC3339Nano)
	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			batchID,
			r.Date,
			r.Campaign,
			r.Channel,
			r.Spend,
			r.Revenue,
			r.Impressions,
			r.Clicks,
			r.Conversions,
			ingestedAt,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return nil
}

func (s *campaignStore) List(ctx context.Context, filter domain.RecordFilter) ([]store.CampaignRecord, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.From != nil {
		where = append(where, "date >= ?")
		args = append(args, filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		where = append(where, "date <= ?")
		args = append(args, filter.To.Format(dateLayout))
	}
	if len(filter.Channels) > 0 {
		placeholders := make([]string, 0, len(filter.Channels))
		for _, c := range filter.Channels {
			placeholders = append(placeholders, "?")
			args = append(args, c)
		}
		where = append(where, fmt.Sprintf("channel IN (%s)", strings.Join(placeholders, ",")))
	}

	query := `
		SELECT id, batch_id, date, campaign, channel, spend, revenue,
			impressions, clicks, conversions, ingested_at
		FROM campaign_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := sqlite.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaign records: %w", err)
	}
	defer rows.Close()

	records := make([]store.CampaignRecord, 0)
	for rows.Next() {
		var (
			r          store.CampaignRecord
			ingestedAt string
		)
		if err := rows.Scan(&r.ID, &r.BatchID, &r.Date, &r.Campaign, &r.Channel, &r.Spend, &r.Revenue,
			&r.Impressions, &r.Clicks, &r.Conversions, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scan campaign record: %w", err)
		}
		r.IngestedAt, _ = time.Parse(time.RFC3339Nano, ingestedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *campaignStore) Stats(ctx context.Context) (*store.RecordStats, error) {
	query := `
		SELECT COUNT(*), MIN(date), MAX(date), COUNT(DISTINCT batch_id)
		FROM campaign_records`

	var stats store.RecordStats
	err := sqlite.Executor(ctx, s.db).QueryRowContext(ctx, query).
		Scan(&stats.RecordsCount, &stats.FirstDate, &stats.LastDate, &stats.Batches)
	if err != nil {
		return nil, fmt.Errorf("get record stats: %w", err)
	}
	return &stats, nil
}

func (s *campaignStore) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	res, err := sqlite.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM campaign_records WHERE batch_id = ?`, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch: %w", err)
	}
	return res.RowsAffected()
}
