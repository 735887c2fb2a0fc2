package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	sf "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteQuery reads records ingested into a local ROI Atlas store.
const DefaultSQLiteQuery = `
	SELECT date, campaign, channel, spend, revenue, impressions, clicks, conversions
	FROM campaign_records
	ORDER BY date, id`

// ProfileResolver maps a profile name or path to the profile file to read.
type ProfileResolver func(ctx context.Context, profile string) (string, error)

// PathResolver treats every profile as a file path.
func PathResolver(_ context.Context, profile string) (string, error) {
	if profile == "" {
		return "", fmt.Errorf("profile is required")
	}
	return profile, nil
}

func profileOf(spec domain.SourceSpec) string {
	if spec.Profile != "" {
		return spec.Profile
	}
	return spec.Location
}

func pickQuery(spec domain.SourceSpec, fromProfile string) (string, error) {
	if spec.Query != "" {
		return spec.Query, nil
	}
	if fromProfile != "" {
		return fromProfile, nil
	}
	return "", fmt.Errorf("%s source requires an extraction query", spec.Kind)
}

// SnowflakeFactory creates sources backed by a Snowflake warehouse.
func SnowflakeFactory(resolve ProfileResolver) source.Factory {
	return func(ctx context.Context, spec domain.SourceSpec) (source.Source, error) {
		path, err := resolve(ctx, profileOf(spec))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve profile: %w", err)
		}
		cfg, profileQuery, err := LoadSnowflakeConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		query, err := pickQuery(spec, profileQuery)
		if err != nil {
			return nil, err
		}

		dsn, err := sf.DSN(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create DSN: %w", err)
		}
		db, err := sql.Open("snowflake", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to snowflake: %w", err)
		}

		return NewSource(fmt.Sprintf("snowflake:%s/%s", cfg.Account, cfg.Database), db, query), nil
	}
}

// DatabricksDSN builds a databricks-sql-go DSN from a profile.
func DatabricksDSN(cfg *DatabricksConfig) string {
	dsn := fmt.Sprintf("token:%s@%s%s", cfg.Token, cfg.Host, cfg.HTTPPath)

	params := url.Values{}
	if cfg.Catalog != "" {
		params.Set("catalog", cfg.Catalog)
	}
	if cfg.Schema != "" {
		params.Set("schema", cfg.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn
}

// DatabricksFactory creates sources backed by a Databricks SQL warehouse.
func DatabricksFactory(resolve ProfileResolver) source.Factory {
	return func(ctx context.Context, spec domain.SourceSpec) (source.Source, error) {
		path, err := resolve(ctx, profileOf(spec))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve profile: %w", err)
		}
		cfg, err := LoadDatabricksConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		query, err := pickQuery(spec, cfg.Query)
		if err != nil {
			return nil, err
		}

		db, err := sql.Open("databricks", DatabricksDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to databricks: %w", err)
		}

		return NewSource("databricks:"+cfg.Host, db, query), nil
	}
}

// SQLiteFactory creates sources reading a SQLite database file. Without a query
// the campaign_records table of a local store is read.
func SQLiteFactory(_ context.Context, spec domain.SourceSpec) (source.Source, error) {
	if spec.Location == "" {
		return nil, fmt.Errorf("sqlite source requires a database path")
	}
	query := spec.Query
	if query == "" {
		query = DefaultSQLiteQuery
	}

	db, err := sql.Open("sqlite", spec.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return NewSource("sqlite:"+spec.Location, db, query), nil
}
