package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/roi-atlas/pkg/models/api"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/models/store"
)

func MapChannelMetricsDomainToApi(m domain.ChannelMetrics) api.ChannelMetrics {
	return api.ChannelMetrics{
		Channel:              m.Channel,
		TotalSpend:           m.TotalSpend,
		TotalRevenue:         m.TotalRevenue,
		Conversions:          m.Conversions,
		Clicks:               m.Clicks,
		Impressions:          m.Impressions,
		ROI:                  m.ROI,
		ROMI:                 m.ROMI,
		CAC:                  m.CAC,
		ConversionRate:       m.ConversionRate,
		CTR:                  m.CTR,
		MER:                  m.MER,
		RevenuePerConversion: m.RevenuePerConversion,
	}
}

func MapChannelMetricsApiToDomain(m api.ChannelMetrics) domain.ChannelMetrics {
	return domain.ChannelMetrics{
		Channel:              m.Channel,
		TotalSpend:           m.TotalSpend,
		TotalRevenue:         m.TotalRevenue,
		Conversions:          m.Conversions,
		Clicks:               m.Clicks,
		Impressions:          m.Impressions,
		ROI:                  m.ROI,
		ROMI:                 m.ROMI,
		CAC:                  m.CAC,
		ConversionRate:       m.ConversionRate,
		CTR:                  m.CTR,
		MER:                  m.MER,
		RevenuePerConversion: m.RevenuePerConversion,
	}
}

func MapChannelMetricsListDomainToApi(metrics []domain.ChannelMetrics) []api.ChannelMetrics {
	out := make([]api.ChannelMetrics, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, MapChannelMetricsDomainToApi(m))
	}
	return out
}

func MapAllocationDomainToApi(a domain.Allocation) api.Allocation {
	return api.Allocation{
		ChannelMetrics:    MapChannelMetricsDomainToApi(a.ChannelMetrics),
		OptimalAllocation: a.OptimalAllocation,
		CurrentRevenue:    a.CurrentRevenue,
		ExpectedRevenue:   a.ExpectedRevenue,
		RevenueIncrease:   a.RevenueIncrease,
	}
}

func MapAllocationsDomainToApi(allocs []domain.Allocation) []api.Allocation {
	out := make([]api.Allocation, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, MapAllocationDomainToApi(a))
	}
	return out
}

func MapAllocationApiToDomain(a api.Allocation) domain.Allocation {
	return domain.Allocation{
		ChannelMetrics:    MapChannelMetricsApiToDomain(a.ChannelMetrics),
		OptimalAllocation: a.OptimalAllocation,
		CurrentRevenue:    a.CurrentRevenue,
		ExpectedRevenue:   a.ExpectedRevenue,
		RevenueIncrease:   a.RevenueIncrease,
	}
}

func MapAnalysisDomainToApi(an *domain.Analysis) api.Analysis {
	out := api.Analysis{
		GeneratedAt: an.GeneratedAt,
		Period:      api.Period{Days: an.Period.Duration},
		Budget:      an.Budget,
		Currency:    an.Currency,
		Totals: api.Totals{
			Channels:    an.Totals.Channels,
			Spend:       an.Totals.Spend,
			Revenue:     an.Totals.Revenue,
			Conversions: an.Totals.Conversions,
			Clicks:      an.Totals.Clicks,
			Impressions: an.Totals.Impressions,
			ROI:         an.Totals.ROI,
			MER:         an.Totals.MER,
			CAC:         an.Totals.CAC,
		},
		Channels:             MapChannelMetricsListDomainToApi(an.Metrics),
		Allocations:          MapAllocationsDomainToApi(an.Allocations),
		TopPerformers:        channelNames(an.TopPerformers),
		NeedsReview:          channelNames(an.NeedsReview),
		TotalRevenueIncrease: an.TotalRevenueIncrease,
		ROIImprovement:       an.ROIImprovement,
		Actions:              an.Actions,
		NextSteps:            an.NextSteps,
	}
	if !an.Period.IsZero() {
		start, end := an.Period.Start, an.Period.End
		out.Period.Start = &start
		out.Period.End = &end
	}
	if an.Trend != nil {
		out.Trend = &api.Trend{Slope: an.Trend.Slope, Intercept: an.Trend.Intercept}
	}
	return out
}

func channelNames(allocs []domain.Allocation) []string {
	names := make([]string, 0, len(allocs))
	for _, a := range allocs {
		names = append(names, a.Channel)
	}
	return names
}

// MapAnalysisToStoreRun captures an analysis as a run row; allocations are stored as JSON.
func MapAnalysisToStoreRun(id, source string, recordsCount int, an *domain.Analysis) (store.AnalysisRun, error) {
	results, err := json.Marshal(MapAllocationsDomainToApi(an.Allocations))
	if err != nil {
		return store.AnalysisRun{}, fmt.Errorf("marshal results: %w", err)
	}

	return store.AnalysisRun{
		ID:              id,
		CreatedAt:       an.GeneratedAt,
		Source:          source,
		Budget:          an.Budget,
		Currency:        an.Currency,
		RecordsCount:    int64(recordsCount),
		TotalSpend:      an.Totals.Spend,
		TotalRevenue:    an.Totals.Revenue,
		RevenueIncrease: an.TotalRevenueIncrease,
		Results:         results,
	}, nil
}

func MapStoreRunToDomain(run store.AnalysisRun) (domain.AnalysisRun, error) {
	out := domain.AnalysisRun{
		ID:              run.ID,
		CreatedAt:       run.CreatedAt,
		Source:          run.Source,
		Budget:          run.Budget,
		Currency:        run.Currency,
		RecordsCount:    run.RecordsCount,
		TotalSpend:      run.TotalSpend,
		TotalRevenue:    run.TotalRevenue,
		RevenueIncrease: run.RevenueIncrease,
	}
	if len(run.Results) > 0 {
		var allocs []api.Allocation
		if err := json.Unmarshal(run.Results, &allocs); err != nil {
			return out, fmt.Errorf("unmarshal results of run %s: %w", run.ID, err)
		}
		for _, a := range allocs {
			out.Results = append(out.Results, MapAllocationApiToDomain(a))
		}
	}
	return out, nil
}

func MapRunDomainToApi(run domain.AnalysisRun) api.AnalysisRun {
	return api.AnalysisRun{
		ID:              run.ID,
		CreatedAt:       run.CreatedAt,
		Source:          run.Source,
		Budget:          run.Budget,
		Currency:        run.Currency,
		RecordsCount:    run.RecordsCount,
		TotalSpend:      run.TotalSpend,
		TotalRevenue:    run.TotalRevenue,
		RevenueIncrease: run.RevenueIncrease,
		Results:         MapAllocationsDomainToApi(run.Results),
	}
}
