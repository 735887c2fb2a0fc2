package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/services/source/csvfile"
	"github.com/rs/zerolog"
)

const (
	colDate        = "date"
	colCampaign    = "campaign"
	colChannel     = "channel"
	colSpend       = "spend"
	colRevenue     = "revenue"
	colImpressions = "impressions"
	colClicks      = "clicks"
	colConversions = "conversions"
)

var requiredColumns = []string{colChannel, colSpend, colRevenue, colImpressions, colClicks, colConversions}

type sqlSource struct {
	name  string
	db    *sql.DB
	query string
}

// NewSource runs query against db. The result set must expose the campaign
// record columns; date and campaign are optional.
func NewSource(name string, db *sql.DB, query string) source.Source {
	return &sqlSource{name: name, db: db, query: query}
}

func (s *sqlSource) Name() string {
	return s.name
}

func (s *sqlSource) Close() error {
	return s.db.Close()
}

func (s *sqlSource) Load(ctx context.Context) ([]domain.CampaignRecord, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("source", s.name).Msg("running extraction query")

	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query campaign records: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[strings.ToLower(strings.TrimSpace(c))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	records := make([]domain.CampaignRecord, 0)
	for n := 1; rows.Next(); n++ {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", n, err)
		}

		rec, err := toRecord(index, values)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrInvalidRecord, n, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

func toRecord(index map[string]int, values []interface{}) (domain.CampaignRecord, error) {
	get := func(col string) interface{} {
		i, ok := index[col]
		if !ok {
			return nil
		}
		return values[i]
	}

	rec := domain.CampaignRecord{
		Campaign: strings.TrimSpace(asString(get(colCampaign))),
		Channel:  strings.TrimSpace(asString(get(colChannel))),
	}
	if rec.Channel == "" {
		return rec, fmt.Errorf("channel is empty")
	}

	var err error
	if rec.Date, err = asTime(get(colDate)); err != nil {
		return rec, err
	}
	if rec.Spend, err = asAmount(colSpend, get(colSpend)); err != nil {
		return rec, err
	}
	if rec.Revenue, err = asAmount(colRevenue, get(colRevenue)); err != nil {
		return rec, err
	}
	if rec.Impressions, err = asCount(colImpressions, get(colImpressions)); err != nil {
		return rec, err
	}
	if rec.Clicks, err = asCount(colClicks, get(colClicks)); err != nil {
		return rec, err
	}
	if rec.Conversions, err = asCount(colConversions, get(colConversions)); err != nil {
		return rec, err
	}
	return rec, nil
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func asTime(v interface{}) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	return csvfile.ParseDate(asString(v))
}

func asAmount(field string, v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, fmt.Errorf("%s must not be negative, got %v", field, t)
		}
		return t, nil
	case int64:
		return asAmount(field, float64(t))
	default:
		return csvfile.ParseAmount(field, asString(v))
	}
}

func asCount(field string, v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		if t < 0 {
			return 0, fmt.Errorf("%s must not be negative, got %d", field, t)
		}
		return t, nil
	default:
		return csvfile.ParseCount(field, asString(v))
	}
}
