package roi

import (
	"math"
	"sort"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
)

// CalculateChannelMetrics aggregates records per channel. Channels keep the order
// in which they first appear in records.
func CalculateChannelMetrics(records []domain.CampaignRecord) []domain.ChannelMetrics {
	index := make(map[string]int)
	metrics := make([]domain.ChannelMetrics, 0)

	for _, r := range records {
		channel := strings.TrimSpace(r.Channel)
		i, ok := index[channel]
		if !ok {
			i = len(metrics)
			index[channel] = i
			metrics = append(metrics, domain.ChannelMetrics{Channel: channel})
		}
		m := &metrics[i]
		m.TotalSpend += r.Spend
		m.TotalRevenue += r.Revenue
		m.Conversions += r.Conversions
		m.Clicks += r.Clicks
		m.Impressions += r.Impressions
	}

	for i := range metrics {
		derive(&metrics[i])
	}
	return metrics
}

func derive(m *domain.ChannelMetrics) {
	m.ROMI = ratio(m.TotalRevenue-m.TotalSpend, m.TotalSpend)
	m.ROI = m.ROMI * 100
	m.MER = ratio(m.TotalRevenue, m.TotalSpend)
	m.CAC = ratio(m.TotalSpend, float64(m.Conversions))
	m.RevenuePerConversion = ratio(m.TotalRevenue, float64(m.Conversions))
	m.ConversionRate = ratio(float64(m.Conversions), float64(m.Clicks)) * 100
	m.CTR = ratio(float64(m.Clicks), float64(m.Impressions)) * 100
}

// Summarize computes portfolio totals over all channels.
func Summarize(metrics []domain.ChannelMetrics) domain.Totals {
	t := domain.Totals{Channels: len(metrics)}
	for _, m := range metrics {
		t.Spend += m.TotalSpend
		t.Revenue += m.TotalRevenue
		t.Conversions += m.Conversions
		t.Clicks += m.Clicks
		t.Impressions += m.Impressions
	}
	t.ROI = ratio(t.Revenue-t.Spend, t.Spend) * 100
	t.MER = ratio(t.Revenue, t.Spend)
	t.CAC = ratio(t.Spend, float64(t.Conversions))
	return t
}

// FitTrend fits revenue = slope*spend + intercept by least squares. It returns
// false when fewer than two distinct spend values exist.
func FitTrend(metrics []domain.ChannelMetrics) (domain.Trend, bool) {
	n := float64(len(metrics))
	if n < 2 {
		return domain.Trend{}, false
	}

	var sumX, sumY float64
	for _, m := range metrics {
		sumX += m.TotalSpend
		sumY += m.TotalRevenue
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for _, m := range metrics {
		dx := m.TotalSpend - meanX
		sxx += dx * dx
		sxy += dx * (m.TotalRevenue - meanY)
	}
	if sxx == 0 || math.IsNaN(sxx) {
		return domain.Trend{}, false
	}

	slope := sxy / sxx
	return domain.Trend{Slope: slope, Intercept: meanY - slope*meanX}, true
}

// SortByROI returns a copy of allocs ordered by ROI, highest first. Ties keep
// their input order.
func SortByROI(allocs []domain.Allocation) []domain.Allocation {
	sorted := append([]domain.Allocation(nil), allocs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ROI > sorted[j].ROI
	})
	return sorted
}

// TopPerformers returns the n channels with the highest ROI.
func TopPerformers(allocs []domain.Allocation, n int) []domain.Allocation {
	sorted := SortByROI(allocs)
	return sorted[:clamp(n, len(sorted))]
}

// NeedsReview returns the n channels with the lowest ROI, lowest first.
func NeedsReview(allocs []domain.Allocation, n int) []domain.Allocation {
	sorted := append([]domain.Allocation(nil), allocs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ROI < sorted[j].ROI
	})
	return sorted[:clamp(n, len(sorted))]
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
