package domain

import "time"

// CampaignRecord is a single row of campaign performance data.
type CampaignRecord struct {
	Date        time.Time
	Campaign    string
	Channel     string
	Spend       float64
	Revenue     float64
	Impressions int64
	Clicks      int64
	Conversions int64
}

type SourceKind string

const (
	SourceKindCSV        SourceKind = "csv"
	SourceKindS3         SourceKind = "s3"
	SourceKindSnowflake  SourceKind = "snowflake"
	SourceKindDatabricks SourceKind = "databricks"
	SourceKindSQLite     SourceKind = "sqlite"
)

// SourceSpec describes where campaign records are loaded from.
type SourceSpec struct {
	Kind     SourceKind
	Location string // file path, s3://bucket/key or database path
	Profile  string // credentials profile for warehouse sources
	Query    string // extraction query for warehouse sources
}

func (s SourceSpec) String() string {
	return string(s.Kind) + ":" + s.Location
}

// RecordFilter narrows stored campaign records.
type RecordFilter struct {
	From     *time.Time
	To       *time.Time
	Channels []string
}
