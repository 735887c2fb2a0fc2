package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const CampaignTableSchema = `
	CREATE TABLE IF NOT EXISTS campaign_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		date TEXT NULL,
		campaign TEXT NOT NULL DEFAULT '',
		channel TEXT NOT NULL,
		spend REAL NOT NULL DEFAULT 0,
		revenue REAL NOT NULL DEFAULT 0,
		impressions INTEGER NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		conversions INTEGER NOT NULL DEFAULT 0,
		ingested_at TEXT NOT NULL
	);
`

const CampaignDateIndex = `CREATE INDEX IF NOT EXISTS idx_campaign_records_date ON campaign_records (date);`

const CampaignBatchIndex = `CREATE INDEX IF NOT EXISTS idx_campaign_records_batch ON campaign_records (batch_id);`

const AnalysisRunsSchema = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		source TEXT NOT NULL,
		budget REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		records_count INTEGER NOT NULL,
		total_spend REAL NOT NULL,
		total_revenue REAL NOT NULL,
		revenue_increase REAL NOT NULL,
		results TEXT NOT NULL
	);
`

var bootQueries = []string{
	CampaignTableSchema,
	CampaignDateIndex,
	CampaignBatchIndex,
	AnalysisRunsSchema,
}

type Settings struct {
	DbPath       string
	BusyTimeout  time.Duration
	MaxOpenConns int
}

func DefaultSettings(path string) Settings {
	return Settings{
		DbPath:       path,
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 8,
	}
}

// NewDB opens the SQLite database and applies the schema.
func NewDB(settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if settings.BusyTimeout == 0 {
		settings.BusyTimeout = 5 * time.Second
	}

	var dsn string
	maxConns := settings.MaxOpenConns
	if settings.DbPath == ":memory:" {
		// every connection would see its own empty database
		dsn = ":memory:"
		maxConns = 1
	} else {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
			settings.DbPath, settings.BusyTimeout.Milliseconds())
	}
	if maxConns <= 0 {
		maxConns = 1
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}

	return db, nil
}
