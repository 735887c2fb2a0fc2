package adapters

import (
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRecordMapping(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	rec := domain.CampaignRecord{Date: date, Campaign: "spring", Channel: "Email", Spend: 10, Revenue: 42, Clicks: 3}

	stored := MapDomainRecordToStore(rec)
	assert.Equal(t, sql.NullString{String: "2025-03-14", Valid: true}, stored.Date)
	assert.Equal(t, rec, MapStoreRecordToDomain(stored))

	undated := MapDomainRecordToStore(domain.CampaignRecord{Channel: "Search"})
	assert.False(t, undated.Date.Valid)
	assert.True(t, MapStoreRecordToDomain(undated).Date.IsZero())
}

func TestMapRecordStatsStoreToDomain(t *testing.T) {
	assert.Nil(t, MapRecordStatsStoreToDomain(nil))

	stats := MapRecordStatsStoreToDomain(&store.RecordStats{
		RecordsCount: 7,
		Batches:      2,
		FirstDate:    sql.NullString{String: "2025-01-01", Valid: true},
	})
	require.NotNil(t, stats)
	assert.Equal(t, int64(7), stats.RecordsCount)
	require.NotNil(t, stats.FirstDate)
	assert.Equal(t, 2025, stats.FirstDate.Year())
	assert.Nil(t, stats.LastDate)
}

func TestRunMapping(t *testing.T) {
	an := &domain.Analysis{
		GeneratedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Budget:      1000,
		Currency:    "EUR",
		Totals:      domain.Totals{Spend: 400, Revenue: 850},
		Allocations: []domain.Allocation{
			{ChannelMetrics: domain.ChannelMetrics{Channel: "Email", ROI: 300}, OptimalAllocation: 800, RevenueIncrease: 2800},
			{ChannelMetrics: domain.ChannelMetrics{Channel: "Search", ROI: 50}, OptimalAllocation: 200, RevenueIncrease: -150},
		},
		TotalRevenueIncrease: 2650,
	}

	stored, err := MapAnalysisToStoreRun("run-1", "csv:a.csv", 12, an)
	require.NoError(t, err)
	assert.Equal(t, "run-1", stored.ID)
	assert.Equal(t, int64(12), stored.RecordsCount)
	assert.Equal(t, 2650.0, stored.RevenueIncrease)

	run, err := MapStoreRunToDomain(stored)
	require.NoError(t, err)
	assert.Equal(t, an.Allocations, run.Results)
	assert.Equal(t, "EUR", run.Currency)

	dto := MapRunDomainToApi(run)
	assert.Equal(t, "csv:a.csv", dto.Source)
	assert.Equal(t, "Email", dto.Results[0].Channel)

	_, err = MapStoreRunToDomain(store.AnalysisRun{ID: "bad", Results: []byte("{")})
	assert.Error(t, err)
}

func TestMapAnalysisDomainToApi(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	an := &domain.Analysis{
		Period:        domain.TimePeriod{Start: start, End: start.AddDate(0, 0, 9), Duration: 10},
		TopPerformers: []domain.Allocation{{ChannelMetrics: domain.ChannelMetrics{Channel: "Email"}}},
		Trend:         &domain.Trend{Slope: 1.5, Intercept: 3},
	}

	dto := MapAnalysisDomainToApi(an)
	require.NotNil(t, dto.Period.Start)
	assert.Equal(t, start, *dto.Period.Start)
	assert.Equal(t, 10, dto.Period.Days)
	assert.Equal(t, []string{"Email"}, dto.TopPerformers)
	assert.Empty(t, dto.NeedsReview)
	require.NotNil(t, dto.Trend)
	assert.Equal(t, 1.5, dto.Trend.Slope)

	assert.Nil(t, MapAnalysisDomainToApi(&domain.Analysis{}).Period.Start)
}
