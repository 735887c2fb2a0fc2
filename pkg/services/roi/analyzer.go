package roi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultBudget       = 100000
	DefaultTop          = 3
	DefaultReview       = 2
	DefaultReductionPct = 30
	DefaultCurrency     = "USD"
)

var nextSteps = []string{
	"Week 1-2: Implement budget reallocation",
	"Week 3-4: Monitor performance and adjust",
	"Week 5-6: Scale successful strategies",
	"Week 7-8: Full optimization review",
}

// Options tune how recommendations are generated.
type Options struct {
	Budget       float64
	Top          int
	Review       int
	ReductionPct float64
	Currency     string
	Now          func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Budget:       DefaultBudget,
		Top:          DefaultTop,
		Review:       DefaultReview,
		ReductionPct: DefaultReductionPct,
		Currency:     DefaultCurrency,
		Now:          time.Now,
	}
}

// withDefaults fills only the fields that have no meaningful zero value. Budget,
// Top, Review and ReductionPct are taken as given.
func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Analyzer turns campaign records into a full ROI analysis.
type Analyzer struct {
	opts Options
}

func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts.withDefaults()}
}

func (a *Analyzer) Options() Options {
	return a.opts
}

// GenerateRecommendations computes channel metrics, the budget reallocation and
// the resulting recommendations report.
func (a *Analyzer) GenerateRecommendations(
	ctx context.Context,
	records []domain.CampaignRecord,
) (*domain.Analysis, error) {
	logger := zerolog.Ctx(ctx)

	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	metrics := CalculateChannelMetrics(records)
	allocs, err := IdentifyOptimizationOpportunities(metrics, a.opts.Budget)
	if err != nil {
		return nil, fmt.Errorf("failed to identify optimization opportunities: %w", err)
	}

	totals := Summarize(metrics)
	increase := TotalRevenueIncrease(allocs)

	analysis := &domain.Analysis{
		GeneratedAt:          a.opts.Now(),
		Period:               periodOf(records),
		Budget:               a.opts.Budget,
		Currency:             a.opts.Currency,
		Metrics:              metrics,
		Totals:               totals,
		Allocations:          allocs,
		TopPerformers:        TopPerformers(allocs, a.opts.Top),
		NeedsReview:          NeedsReview(allocs, a.opts.Review),
		TotalRevenueIncrease: increase,
		ROIImprovement:       ratio(increase, totals.Spend) * 100,
		NextSteps:            append([]string(nil), nextSteps...),
	}
	if trend, ok := FitTrend(metrics); ok {
		analysis.Trend = &trend
	}
	analysis.Actions = a.actions(analysis)
	analysis.Report = a.buildReport(analysis)

	logger.Debug().
		Int("records", len(records)).
		Int("channels", len(metrics)).
		Float64("budget", a.opts.Budget).
		Float64("revenue_increase", increase).
		Msg("analysis generated")

	return analysis, nil
}

func (a *Analyzer) actions(an *domain.Analysis) []string {
	var actions []string
	if len(an.TopPerformers) > 0 {
		actions = append(actions, fmt.Sprintf("Increase budget allocation to high-ROI channels (%s)",
			channelNames(an.TopPerformers)))
	}
	if len(an.NeedsReview) > 0 && a.opts.ReductionPct > 0 {
		actions = append(actions, fmt.Sprintf("Reduce spend on underperforming channels by %s (%s)",
			FormatPercent(a.opts.ReductionPct, 0), channelNames(an.NeedsReview)))
	}
	return append(actions,
		"Implement A/B testing for ad creatives",
		"Review targeting parameters for low-ROI campaigns",
		"Set up weekly performance dashboards",
	)
}

func (a *Analyzer) buildReport(an *domain.Analysis) *domain.Report {
	cur := an.Currency
	report := &domain.Report{
		Title:       "Marketing ROI Analysis Report",
		Period:      an.Period,
		TotalAmount: an.Totals.Spend,
		Currency:    cur,
	}

	performance := domain.ReportSection{
		Title: "Current Performance by Channel",
		Summary: []domain.SummaryItem{
			{Key: "Channels", Value: fmt.Sprint(an.Totals.Channels)},
			{Key: "Total Spend", Value: FormatMoney(cur, an.Totals.Spend)},
			{Key: "Total Revenue", Value: FormatMoney(cur, an.Totals.Revenue)},
			{Key: "Overall ROI", Value: FormatPercent(an.Totals.ROI, 0)},
			{Key: "Overall MER", Value: fmt.Sprintf("%.2f", an.Totals.MER)},
		},
	}
	for _, m := range an.Metrics {
		performance.Details = append(performance.Details, domain.ReportDetail{
			Name:  m.Channel,
			Value: fmt.Sprintf("%.0f", m.ROI),
			Unit:  "% ROI",
			Description: fmt.Sprintf("spend %s, revenue %s, CAC %s",
				FormatMoney(cur, m.TotalSpend), FormatMoney(cur, m.TotalRevenue), FormatMoney(cur, m.CAC)),
		})
	}

	top := rankingSection(fmt.Sprintf("Top %d Performing Channels", len(an.TopPerformers)), cur, an.TopPerformers)
	review := rankingSection("Channels Needing Review", cur, an.NeedsReview)

	realloc := domain.ReportSection{
		Title: "Budget Reallocation",
		Summary: []domain.SummaryItem{
			{Key: "Budget", Value: FormatMoney(cur, an.Budget)},
		},
	}
	for _, al := range an.Allocations {
		realloc.Details = append(realloc.Details, domain.ReportDetail{
			Name:  al.Channel,
			Value: FormatMoney(cur, al.OptimalAllocation),
			Unit:  cur,
			Description: fmt.Sprintf("expected revenue %s (%s)",
				FormatMoney(cur, al.ExpectedRevenue), signedMoney(cur, al.RevenueIncrease)),
		})
	}

	impact := domain.ReportSection{
		Title: "Potential Impact",
		Summary: []domain.SummaryItem{
			{Key: "Revenue Increase", Value: FormatMoney(cur, an.TotalRevenueIncrease)},
			{Key: "ROI Improvement", Value: FormatPercent(an.ROIImprovement, 1)},
		},
	}
	if an.Trend != nil {
		impact.Notes = append(impact.Notes, fmt.Sprintf(
			"Each additional %s of spend is associated with %s of revenue across channels",
			FormatMoney(cur, 1000), FormatMoney(cur, an.Trend.Slope*1000)))
	}

	report.Sections = []domain.ReportSection{
		performance,
		top,
		review,
		realloc,
		impact,
		{Title: "Recommended Actions", Notes: numbered(an.Actions)},
		{Title: "Next Steps", Notes: an.NextSteps},
	}
	return report
}

func rankingSection(title, cur string, allocs []domain.Allocation) domain.ReportSection {
	section := domain.ReportSection{Title: title}
	for _, al := range allocs {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        al.Channel,
			Value:       fmt.Sprintf("%.0f", al.ROI),
			Unit:        "% ROI",
			Description: "CAC " + FormatMoney(cur, al.CAC),
		})
	}
	return section
}

func periodOf(records []domain.CampaignRecord) domain.TimePeriod {
	var p domain.TimePeriod
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if p.Start.IsZero() || r.Date.Before(p.Start) {
			p.Start = r.Date
		}
		if p.End.IsZero() || r.Date.After(p.End) {
			p.End = r.Date
		}
	}
	if !p.IsZero() {
		p.Duration = int(p.End.Sub(p.Start).Hours()/24) + 1
	}
	return p
}

func channelNames(allocs []domain.Allocation) string {
	names := make([]string, 0, len(allocs))
	for _, a := range allocs {
		names = append(names, a.Channel)
	}
	return strings.Join(names, ", ")
}

func signedMoney(cur string, v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(cur, v)
	}
	return FormatMoney(cur, v)
}

func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return out
}
