package roi

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []domain.CampaignRecord {
	return []domain.CampaignRecord{
		{Date: day(1), Channel: "Email", Spend: 1000, Revenue: 5000, Conversions: 50, Clicks: 500, Impressions: 10000},
		{Date: day(2), Channel: "Search", Spend: 4000, Revenue: 8000, Conversions: 80, Clicks: 1500, Impressions: 40000},
		{Date: day(3), Channel: "Display", Spend: 2000, Revenue: 1000, Conversions: 10, Clicks: 1000, Impressions: 100000},
		{Date: day(5), Channel: " Search ", Spend: 1000, Revenue: 2000, Conversions: 20, Clicks: 500, Impressions: 10000},
		{Date: day(4), Channel: "Social"},
	}
}

func TestCalculateChannelMetrics(t *testing.T) {
	metrics := CalculateChannelMetrics(sampleRecords())
	require.Len(t, metrics, 4)

	names := []string{metrics[0].Channel, metrics[1].Channel, metrics[2].Channel, metrics[3].Channel}
	assert.Equal(t, []string{"Email", "Search", "Display", "Social"}, names)

	email := metrics[0]
	assert.InDelta(t, 400, email.ROI, 1e-9)
	assert.InDelta(t, 4, email.ROMI, 1e-9)
	assert.InDelta(t, 20, email.CAC, 1e-9)
	assert.InDelta(t, 10, email.ConversionRate, 1e-9)
	assert.InDelta(t, 5, email.MER, 1e-9)
	assert.InDelta(t, 100, email.RevenuePerConversion, 1e-9)
	assert.InDelta(t, 5, email.CTR, 1e-9)

	search := metrics[1]
	assert.Equal(t, 5000.0, search.TotalSpend)
	assert.Equal(t, 10000.0, search.TotalRevenue)
	assert.Equal(t, int64(100), search.Conversions)
	assert.Equal(t, int64(2000), search.Clicks)
	assert.Equal(t, int64(50000), search.Impressions)
	assert.InDelta(t, 100, search.ROI, 1e-9)
	assert.InDelta(t, 50, search.CAC, 1e-9)
	assert.InDelta(t, 5, search.ConversionRate, 1e-9)

	assert.InDelta(t, -50, metrics[2].ROI, 1e-9)

	t.Run("zero denominators yield zero", func(t *testing.T) {
		social := metrics[3]
		assert.Zero(t, social.ROI)
		assert.Zero(t, social.ROMI)
		assert.Zero(t, social.CAC)
		assert.Zero(t, social.ConversionRate)
		assert.Zero(t, social.MER)
		assert.Zero(t, social.CTR)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, CalculateChannelMetrics(nil))
	})
}

func TestSummarize(t *testing.T) {
	totals := Summarize(CalculateChannelMetrics(sampleRecords()))

	assert.Equal(t, 4, totals.Channels)
	assert.Equal(t, 8000.0, totals.Spend)
	assert.Equal(t, 16000.0, totals.Revenue)
	assert.Equal(t, int64(160), totals.Conversions)
	assert.InDelta(t, 100, totals.ROI, 1e-9)
	assert.InDelta(t, 2, totals.MER, 1e-9)
	assert.InDelta(t, 50, totals.CAC, 1e-9)
}

func TestIdentifyOptimizationOpportunities(t *testing.T) {
	metrics := CalculateChannelMetrics(sampleRecords())

	allocs, err := IdentifyOptimizationOpportunities(metrics, 10000)
	require.NoError(t, err)
	require.Len(t, allocs, 4)

	byChannel := map[string]domain.Allocation{}
	order := make([]string, 0, len(allocs))
	var sum float64
	for _, a := range allocs {
		byChannel[a.Channel] = a
		order = append(order, a.Channel)
		sum += a.OptimalAllocation
	}

	assert.Equal(t, []string{"Email", "Search", "Social", "Display"}, order)
	assert.InDelta(t, 10000, sum, 1e-6)

	assert.InDelta(t, 8000, byChannel["Email"].OptimalAllocation, 1e-6)
	assert.InDelta(t, 40000, byChannel["Email"].ExpectedRevenue, 1e-6)
	assert.InDelta(t, 35000, byChannel["Email"].RevenueIncrease, 1e-6)

	assert.InDelta(t, 2000, byChannel["Search"].OptimalAllocation, 1e-6)
	assert.InDelta(t, -6000, byChannel["Search"].RevenueIncrease, 1e-6)

	assert.Zero(t, byChannel["Display"].OptimalAllocation)
	assert.InDelta(t, -1000, byChannel["Display"].RevenueIncrease, 1e-6)

	assert.Zero(t, byChannel["Social"].ExpectedRevenue)
	assert.Zero(t, byChannel["Social"].RevenueIncrease)

	assert.InDelta(t, 28000, TotalRevenueIncrease(allocs), 1e-6)
}

func TestIdentifyOptimizationOpportunities_Fallbacks(t *testing.T) {
	t.Run("no positive ROI follows spend share", func(t *testing.T) {
		metrics := CalculateChannelMetrics([]domain.CampaignRecord{
			{Channel: "A", Spend: 100, Revenue: 50},
			{Channel: "B", Spend: 300, Revenue: 300},
		})

		allocs, err := IdentifyOptimizationOpportunities(metrics, 1000)
		require.NoError(t, err)

		got := map[string]float64{}
		for _, a := range allocs {
			got[a.Channel] = a.OptimalAllocation
		}
		assert.InDelta(t, 250, got["A"], 1e-9)
		assert.InDelta(t, 750, got["B"], 1e-9)
	})

	t.Run("nothing spent splits evenly", func(t *testing.T) {
		metrics := CalculateChannelMetrics([]domain.CampaignRecord{
			{Channel: "A"}, {Channel: "B"},
		})

		allocs, err := IdentifyOptimizationOpportunities(metrics, 1000)
		require.NoError(t, err)
		for _, a := range allocs {
			assert.InDelta(t, 500, a.OptimalAllocation, 1e-9)
		}
	})

	t.Run("invalid budget", func(t *testing.T) {
		metrics := CalculateChannelMetrics(sampleRecords())
		_, err := IdentifyOptimizationOpportunities(metrics, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidBudget)
	})

	t.Run("non-finite budget", func(t *testing.T) {
		metrics := CalculateChannelMetrics(sampleRecords())
		for _, budget := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -10} {
			_, err := IdentifyOptimizationOpportunities(metrics, budget)
			assert.ErrorIs(t, err, domain.ErrInvalidBudget, "budget %v", budget)
		}
	})

	t.Run("no metrics", func(t *testing.T) {
		_, err := IdentifyOptimizationOpportunities(nil, 1000)
		assert.ErrorIs(t, err, domain.ErrNoRecords)
	})
}

func TestRankings(t *testing.T) {
	allocs, err := IdentifyOptimizationOpportunities(CalculateChannelMetrics(sampleRecords()), 1000)
	require.NoError(t, err)

	channels := func(in []domain.Allocation) []string {
		out := []string{}
		for _, a := range in {
			out = append(out, a.Channel)
		}
		return out
	}

	assert.Equal(t, []string{"Email", "Search", "Social"}, channels(TopPerformers(allocs, 3)))
	assert.Equal(t, []string{"Display", "Social"}, channels(NeedsReview(allocs, 2)))
	assert.Len(t, TopPerformers(allocs, 10), 4)
	assert.Empty(t, NeedsReview(allocs, -1))
}

func TestFitTrend(t *testing.T) {
	trend, ok := FitTrend(CalculateChannelMetrics(sampleRecords()))
	require.True(t, ok)
	assert.InDelta(t, 25.0/14.0, trend.Slope, 1e-9)
	assert.InDelta(t, 4000-25.0/14.0*2000, trend.Intercept, 1e-9)
	assert.InDelta(t, trend.Intercept, trend.At(0), 1e-9)

	_, ok = FitTrend(CalculateChannelMetrics([]domain.CampaignRecord{
		{Channel: "A", Spend: 10, Revenue: 1},
		{Channel: "B", Spend: 10, Revenue: 5},
	}))
	assert.False(t, ok)

	_, ok = FitTrend(nil)
	assert.False(t, ok)
}

func TestAnalyzer_GenerateRecommendations(t *testing.T) {
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	opts := DefaultOptions()
	opts.Budget = 10000
	opts.Now = func() time.Time { return now }
	analyzer := NewAnalyzer(opts)

	analysis, err := analyzer.GenerateRecommendations(context.Background(), sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, now, analysis.GeneratedAt)
	assert.Equal(t, "USD", analysis.Currency)
	assert.Equal(t, day(1), analysis.Period.Start)
	assert.Equal(t, day(5), analysis.Period.End)
	assert.Equal(t, 5, analysis.Period.Duration)
	assert.Len(t, analysis.TopPerformers, DefaultTop)
	assert.Len(t, analysis.NeedsReview, DefaultReview)
	assert.InDelta(t, 28000, analysis.TotalRevenueIncrease, 1e-6)
	assert.InDelta(t, 350, analysis.ROIImprovement, 1e-6)
	require.NotNil(t, analysis.Trend)

	require.Len(t, analysis.Actions, 5)
	assert.Equal(t, "Increase budget allocation to high-ROI channels (Email, Search, Social)", analysis.Actions[0])
	assert.Equal(t, "Reduce spend on underperforming channels by 30% (Display, Social)", analysis.Actions[1])
	assert.Len(t, analysis.NextSteps, 4)

	report := analysis.Report
	require.NotNil(t, report)
	assert.Equal(t, "Marketing ROI Analysis Report", report.Title)
	assert.Equal(t, 8000.0, report.TotalAmount)

	titles := make([]string, 0, len(report.Sections))
	for _, s := range report.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Current Performance by Channel",
		"Top 3 Performing Channels",
		"Channels Needing Review",
		"Budget Reallocation",
		"Potential Impact",
		"Recommended Actions",
		"Next Steps",
	}, titles)
	assert.Equal(t, "3. Implement A/B testing for ad creatives", report.Sections[5].Notes[2])
}

func TestAnalyzer_ExplicitZeroOptions(t *testing.T) {
	analyzer := NewAnalyzer(Options{Budget: 1000, Top: 0, Review: 0, ReductionPct: 0})
	assert.Equal(t, 0, analyzer.Options().Top)
	assert.Equal(t, 0, analyzer.Options().Review)
	assert.Zero(t, analyzer.Options().ReductionPct)
	assert.Equal(t, DefaultCurrency, analyzer.Options().Currency)

	analysis, err := analyzer.GenerateRecommendations(context.Background(), sampleRecords())
	require.NoError(t, err)
	assert.Empty(t, analysis.TopPerformers)
	assert.Empty(t, analysis.NeedsReview)
	assert.Equal(t, []string{
		"Implement A/B testing for ad creatives",
		"Review targeting parameters for low-ROI campaigns",
		"Set up weekly performance dashboards",
	}, analysis.Actions)

	t.Run("reduction of zero drops the reduction action", func(t *testing.T) {
		analysis, err := NewAnalyzer(Options{Budget: 1000, Top: 1, Review: 1}).
			GenerateRecommendations(context.Background(), sampleRecords())
		require.NoError(t, err)
		require.Len(t, analysis.Actions, 4)
		assert.Equal(t, "Increase budget allocation to high-ROI channels (Email)", analysis.Actions[0])
		for _, action := range analysis.Actions {
			assert.NotContains(t, action, "Reduce spend")
		}
	})

	t.Run("missing budget is rejected", func(t *testing.T) {
		_, err := NewAnalyzer(Options{}).GenerateRecommendations(context.Background(), sampleRecords())
		assert.ErrorIs(t, err, domain.ErrInvalidBudget)
	})
}

func TestAnalyzer_GenerateRecommendations_NoRecords(t *testing.T) {
	_, err := NewAnalyzer(DefaultOptions()).GenerateRecommendations(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoRecords)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$12,500", FormatMoney("USD", 12500))
	assert.Equal(t, "-$1,000", FormatMoney("usd", -1000.4))
	assert.Equal(t, "€0", FormatMoney("EUR", 0))
	assert.Equal(t, "CHF 42", FormatMoney("CHF", 42))
	assert.Equal(t, "12.5%", FormatPercent(12.5, 1))
}
