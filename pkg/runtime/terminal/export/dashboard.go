package export

import (
	"context"
	"io"
	"math"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const dashboardTitle = "Marketing Performance"

// WriteDashboard renders the channel charts into a single HTML page: ROI, CAC and
// conversion rate per channel and spend against revenue with the fitted trend.
func WriteDashboard(ctx context.Context, path string, metrics []domain.ChannelMetrics, trend *domain.Trend) error {
	page := NewDashboard(metrics, trend)
	return writeAtomically(ctx, path, func(w io.Writer) error {
		return page.Render(w)
	})
}

// NewDashboard builds the dashboard page without rendering it.
func NewDashboard(metrics []domain.ChannelMetrics, trend *domain.Trend) *components.Page {
	page := components.NewPage()
	page.PageTitle = dashboardTitle

	channels := make([]string, 0, len(metrics))
	for _, m := range metrics {
		channels = append(channels, m.Channel)
	}

	page.AddCharts(
		channelBar("ROI by Channel", "ROI %", channels, metrics, func(m domain.ChannelMetrics) float64 { return m.ROI }),
		channelBar("Customer Acquisition Cost by Channel", "CAC", channels, metrics, func(m domain.ChannelMetrics) float64 { return m.CAC }),
		spendRevenueScatter(metrics, trend),
		channelBar("Conversion Rate by Channel", "Conversion Rate %", channels, metrics, func(m domain.ChannelMetrics) float64 { return m.ConversionRate }),
	)
	return page
}

func channelBar(
	title, series string,
	channels []string,
	metrics []domain.ChannelMetrics,
	value func(domain.ChannelMetrics) float64,
) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	items := make([]opts.BarData, 0, len(metrics))
	for _, m := range metrics {
		items = append(items, opts.BarData{Name: m.Channel, Value: round2(value(m))})
	}
	bar.SetXAxis(channels).AddSeries(series, items)
	return bar
}

func spendRevenueScatter(metrics []domain.ChannelMetrics, trend *domain.Trend) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Spend vs Revenue"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Spend"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Revenue"}),
	)

	points := make([]opts.ScatterData, 0, len(metrics))
	minSpend, maxSpend := math.Inf(1), math.Inf(-1)
	for _, m := range metrics {
		points = append(points, opts.ScatterData{
			Name:  m.Channel,
			Value: []interface{}{round2(m.TotalSpend), round2(m.TotalRevenue)},
		})
		minSpend = math.Min(minSpend, m.TotalSpend)
		maxSpend = math.Max(maxSpend, m.TotalSpend)
	}
	scatter.AddSeries("Channels", points)

	if trend != nil && len(metrics) > 1 {
		line := charts.NewLine()
		line.AddSeries("Trend", []opts.LineData{
			{Value: []interface{}{round2(minSpend), round2(trend.At(minSpend))}},
			{Value: []interface{}{round2(maxSpend), round2(trend.At(maxSpend))}},
		})
		scatter.Overlap(line)
	}
	return scatter
}
