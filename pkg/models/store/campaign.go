package store

import (
	"database/sql"
	"time"
)

type CampaignRecord struct {
	ID          int64
	BatchID     string
	Date        sql.NullString // YYYY-MM-DD
	Campaign    string
	Channel     string
	Spend       float64
	Revenue     float64
	Impressions int64
	Clicks      int64
	Conversions int64
	IngestedAt  time.Time
}

type RecordStats struct {
	RecordsCount int64
	FirstDate    sql.NullString
	LastDate     sql.NullString
	Batches      int64
}

type AnalysisRun struct {
	ID              string
	CreatedAt       time.Time
	Source          string
	Budget          float64
	Currency        string
	RecordsCount    int64
	TotalSpend      float64
	TotalRevenue    float64
	RevenueIncrease float64
	Results         []byte // JSON encoded allocations
}
