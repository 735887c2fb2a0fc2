package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/models/store"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite"
)

const (
	defaultLimit    = 20
	defaultCurrency = "USD"
	// fixed width keeps lexical order equal to time order
	timeLayout      = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store keeps the history of executed analyses.
type Store interface {
	Create(ctx context.Context, run store.AnalysisRun) error
	Get(ctx context.Context, id string) (*store.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]store.AnalysisRun, error)
}

type runStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{db: db}, nil
}

func (s *runStore) Create(ctx context.Context, run store.AnalysisRun) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	results := run.Results
	if results == nil {
		results = []byte("[]")
	}
	currency := run.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	_, err := sqlite.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO analysis_runs (
			id, created_at, source, budget, currency, records_count,
			total_spend, total_revenue, revenue_increase, results
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Source,
		run.Budget,
		currency,
		run.RecordsCount,
		run.TotalSpend,
		run.TotalRevenue,
		run.RevenueIncrease,
		string(results),
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

const selectRun = `
	SELECT id, created_at, source, budget, currency, records_count,
		total_spend, total_revenue, revenue_increase, results
	FROM analysis_runs`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*store.AnalysisRun, error) {
	var (
		run       store.AnalysisRun
		createdAt string
		results   string
	)
	if err := row.Scan(&run.ID, &createdAt, &run.Source, &run.Budget, &run.Currency, &run.RecordsCount,
		&run.TotalSpend, &run.TotalRevenue, &run.RevenueIncrease, &results); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = t
	run.Results = []byte(results)
	return &run, nil
}

func (s *runStore) Get(ctx context.Context, id string) (*store.AnalysisRun, error) {
	row := sqlite.Executor(ctx, s.db).QueryRowContext(ctx, selectRun+" WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis run: %w", err)
	}
	return run, nil
}

func (s *runStore) List(ctx context.Context, limit int) ([]store.AnalysisRun, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := sqlite.Executor(ctx, s.db).QueryContext(ctx, selectRun+" ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := make([]store.AnalysisRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}
