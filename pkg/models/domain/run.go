package domain

import "time"

// AnalysisRun is a persisted summary of an executed analysis.
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
	Results         []Allocation
}

type RecordStats struct {
	RecordsCount int64
	FirstDate    *time.Time
	LastDate     *time.Time
	Batches      int64
}
