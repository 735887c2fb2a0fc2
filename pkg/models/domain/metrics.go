package domain

import "time"

// ChannelMetrics aggregates campaign records of a single marketing channel.
type ChannelMetrics struct {
	Channel              string
	TotalSpend           float64
	TotalRevenue         float64
	Conversions          int64
	Clicks               int64
	Impressions          int64
	ROI                  float64 // percent
	ROMI                 float64 // ratio
	CAC                  float64
	ConversionRate       float64 // percent
	CTR                  float64 // percent
	MER                  float64
	RevenuePerConversion float64
}

// Allocation is the optimization outcome for a channel.
type Allocation struct {
	ChannelMetrics
	OptimalAllocation float64
	CurrentRevenue    float64
	ExpectedRevenue   float64
	RevenueIncrease   float64
}

// Totals summarizes the whole portfolio.
type Totals struct {
	Channels    int
	Spend       float64
	Revenue     float64
	Conversions int64
	Clicks      int64
	Impressions int64
	ROI         float64
	MER         float64
	CAC         float64
}

// Trend is a least-squares line of revenue over spend.
type Trend struct {
	Slope     float64
	Intercept float64
}

func (t Trend) At(spend float64) float64 {
	return t.Slope*spend + t.Intercept
}

// Analysis is the complete result of a ROI analysis.
type Analysis struct {
	GeneratedAt          time.Time
	Period               TimePeriod
	Budget               float64
	Currency             string
	Metrics              []ChannelMetrics
	Totals               Totals
	Allocations          []Allocation
	TopPerformers        []Allocation
	NeedsReview          []Allocation
	TotalRevenueIncrease float64
	ROIImprovement       float64
	Actions              []string
	NextSteps            []string
	Trend                *Trend
	Report               *Report
}
