package api

import "time"

type ChannelMetrics struct {
	Channel              string  `json:"channel"`
	TotalSpend           float64 `json:"total_spend"`
	TotalRevenue         float64 `json:"total_revenue"`
	Conversions          int64   `json:"conversions"`
	Clicks               int64   `json:"clicks"`
	Impressions          int64   `json:"impressions"`
	ROI                  float64 `json:"roi"`
	ROMI                 float64 `json:"romi"`
	CAC                  float64 `json:"cac"`
	ConversionRate       float64 `json:"conversion_rate"`
	CTR                  float64 `json:"ctr"`
	MER                  float64 `json:"mer"`
	RevenuePerConversion float64 `json:"revenue_per_conversion"`
}

type Allocation struct {
	ChannelMetrics
	OptimalAllocation float64 `json:"optimal_allocation"`
	CurrentRevenue    float64 `json:"current_revenue"`
	ExpectedRevenue   float64 `json:"expected_revenue"`
	RevenueIncrease   float64 `json:"revenue_increase"`
}

type Totals struct {
	Channels    int     `json:"channels"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Conversions int64   `json:"conversions"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	ROI         float64 `json:"roi"`
	MER         float64 `json:"mer"`
	CAC         float64 `json:"cac"`
}

type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	Days  int        `json:"days"`
}

type Analysis struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	Period               Period           `json:"period"`
	Budget               float64          `json:"budget"`
	Currency             string           `json:"currency"`
	Totals               Totals           `json:"totals"`
	Channels             []ChannelMetrics `json:"channels"`
	Allocations          []Allocation     `json:"allocations"`
	TopPerformers        []string         `json:"top_performers"`
	NeedsReview          []string         `json:"needs_review"`
	TotalRevenueIncrease float64          `json:"total_revenue_increase"`
	ROIImprovement       float64          `json:"roi_improvement"`
	Actions              []string         `json:"actions"`
	NextSteps            []string         `json:"next_steps"`
	Trend                *Trend           `json:"trend,omitempty"`
	RunID                string           `json:"run_id,omitempty"`
}

type AnalysisRun struct {
	ID              string       `json:"id"`
	CreatedAt       time.Time    `json:"created_at"`
	Source          string       `json:"source"`
	Budget          float64      `json:"budget"`
	Currency        string       `json:"currency"`
	RecordsCount    int64        `json:"records_count"`
	TotalSpend      float64      `json:"total_spend"`
	TotalRevenue    float64      `json:"total_revenue"`
	RevenueIncrease float64      `json:"revenue_increase"`
	Results         []Allocation `json:"results,omitempty"`
}

// AnalyzeRequest fields left out of the body fall back to the server defaults.
type AnalyzeRequest struct {
	Budget   *float64 `json:"budget,omitempty"`
	Top      *int     `json:"top,omitempty"`
	Review   *int     `json:"review,omitempty"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	Channels []string `json:"channels,omitempty"`
	Save     bool     `json:"save"`
}
