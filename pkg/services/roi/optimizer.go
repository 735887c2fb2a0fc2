package roi

import (
	"fmt"
	"math"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
)

// IdentifyOptimizationOpportunities distributes budget across channels in
// proportion to their positive ROI and estimates the revenue each channel would
// produce at its current revenue per unit of spend.
//
// Channels with a non-positive ROI receive nothing. If no channel has a positive
// ROI the budget follows the current spend share, and if nothing was spent at all
// it is split evenly.
func IdentifyOptimizationOpportunities(metrics []domain.ChannelMetrics, budget float64) ([]domain.Allocation, error) {
	if len(metrics) == 0 {
		return nil, domain.ErrNoRecords
	}
	if !ValidBudget(budget) {
		return nil, fmt.Errorf("%w: got %.2f", domain.ErrInvalidBudget, budget)
	}

	weights := make([]float64, len(metrics))
	var total float64
	for i, m := range metrics {
		if m.ROI > 0 {
			weights[i] = m.ROI
			total += m.ROI
		}
	}
	if total == 0 {
		for i, m := range metrics {
			weights[i] = m.TotalSpend
			total += m.TotalSpend
		}
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}

	allocs := make([]domain.Allocation, 0, len(metrics))
	for i, m := range metrics {
		optimal := weights[i] / total * budget
		expected := ratio(optimal, m.TotalSpend) * m.TotalRevenue
		allocs = append(allocs, domain.Allocation{
			ChannelMetrics:    m,
			OptimalAllocation: optimal,
			CurrentRevenue:    m.TotalRevenue,
			ExpectedRevenue:   expected,
			RevenueIncrease:   expected - m.TotalRevenue,
		})
	}

	return SortByROI(allocs), nil
}

// TotalRevenueIncrease sums the expected revenue change across allocations.
func TotalRevenueIncrease(allocs []domain.Allocation) float64 {
	var total float64
	for _, a := range allocs {
		total += a.RevenueIncrease
	}
	return total
}

// ValidBudget reports whether budget is a finite amount greater than zero.
func ValidBudget(budget float64) bool {
	return budget > 0 && !math.IsInf(budget, 1)
}
