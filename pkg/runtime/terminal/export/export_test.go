package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAllocations() []domain.Allocation {
	return []domain.Allocation{
		{
			ChannelMetrics: domain.ChannelMetrics{
				Channel: "Email", TotalSpend: 1000, TotalRevenue: 5000, ROI: 400, ROMI: 4,
				CAC: 20, ConversionRate: 10, Conversions: 50, Clicks: 500, Impressions: 10000,
			},
			OptimalAllocation: 6666.666666, CurrentRevenue: 5000, ExpectedRevenue: 33333.33333, RevenueIncrease: 28333.33333,
		},
		{
			ChannelMetrics:    domain.ChannelMetrics{Channel: "Display", TotalSpend: 2000, TotalRevenue: 1000, ROI: -50},
			CurrentRevenue:    1000,
			RevenueIncrease:   -1000,
			OptimalAllocation: 0,
		},
	}
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	report := &domain.Report{
		Title:       "Marketing ROI Analysis Report",
		Period:      domain.TimePeriod{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), Duration: 31},
		TotalAmount: 3000,
		Currency:    "USD",
		Sections: []domain.ReportSection{
			{
				Title:   "Current Performance by Channel",
				Summary: []domain.SummaryItem{{Key: "Channels", Value: "2"}, {Key: "Total Spend", Value: "$3,000"}},
				Details: []domain.ReportDetail{{Name: "Email", Value: "400", Unit: "% ROI", Description: "spend $1,000"}},
			},
			{Title: "Next Steps", Notes: []string{"Week 1-2: Implement budget reallocation"}},
		},
	}

	require.NoError(t, NewReporter(&buf).Handle(report))
	out := buf.String()

	assert.Contains(t, out, "Marketing ROI Analysis Report (31 days)")
	assert.Contains(t, out, "Active Period: 2025-01-01 to 2025-01-31")
	assert.Contains(t, out, "Total Spend: $3,000")
	assert.Less(t, strings.Index(out, "Channels: 2"), strings.Index(out, "| Email "))
	assert.Contains(t, out, "| Email ")
	assert.Contains(t, out, "Week 1-2: Implement budget reallocation")

	t.Run("undated report", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, NewReporter(&buf).Handle(&domain.Report{Title: "Undated", Currency: "EUR"}))
		assert.NotContains(t, buf.String(), "Active Period")
		assert.Contains(t, buf.String(), "Total Spend: €0")
	})
}

func TestWriteResultsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), ResultsFile)
	require.NoError(t, WriteResultsCSV(context.Background(), path, sampleAllocations()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Channel", "TotalSpend", "TotalRevenue", "ROI", "CAC", "ConversionRate", "ROMI",
		"Conversions", "Clicks", "Impressions", "OptimalAllocation", "CurrentRevenue",
		"ExpectedRevenue", "RevenueIncrease",
	}, rows[0])
	assert.Equal(t, "Email", rows[1][0])
	assert.Equal(t, "6666.67", rows[1][10])
	assert.Equal(t, "-1000", rows[2][13])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), JSONFile)
	require.NoError(t, WriteJSON(context.Background(), path, map[string]int{"channels": 2}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded["channels"])

	err = WriteJSON(context.Background(), filepath.Join(t.TempDir(), "missing", JSONFile), 1)
	assert.Error(t, err)
}

func TestWriteDashboard(t *testing.T) {
	allocs := sampleAllocations()
	metrics := []domain.ChannelMetrics{allocs[0].ChannelMetrics, allocs[1].ChannelMetrics}
	trend := &domain.Trend{Slope: -4, Intercept: 9000}

	path := filepath.Join(t.TempDir(), DashboardFile)
	require.NoError(t, WriteDashboard(context.Background(), path, metrics, trend))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>Marketing Performance</title>")
	assert.Contains(t, html, "ROI by Channel")
	assert.Contains(t, html, "Customer Acquisition Cost by Channel")
	assert.Contains(t, html, "Spend vs Revenue")
	assert.Contains(t, html, "Conversion Rate by Channel")
	assert.Contains(t, html, "Trend")
}
