package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/gocarina/gocsv"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

const (
	ResultsFile   = "roi_analysis_results.csv"
	JSONFile      = "roi_analysis.json"
	DashboardFile = "marketing_performance.html"
)

type resultRow struct {
	Channel           string  `csv:"Channel"`
	TotalSpend        float64 `csv:"TotalSpend"`
	TotalRevenue      float64 `csv:"TotalRevenue"`
	ROI               float64 `csv:"ROI"`
	CAC               float64 `csv:"CAC"`
	ConversionRate    float64 `csv:"ConversionRate"`
	ROMI              float64 `csv:"ROMI"`
	Conversions       int64   `csv:"Conversions"`
	Clicks            int64   `csv:"Clicks"`
	Impressions       int64   `csv:"Impressions"`
	OptimalAllocation float64 `csv:"OptimalAllocation"`
	CurrentRevenue    float64 `csv:"CurrentRevenue"`
	ExpectedRevenue   float64 `csv:"ExpectedRevenue"`
	RevenueIncrease   float64 `csv:"RevenueIncrease"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func resultRows(allocs []domain.Allocation) []*resultRow {
	rows := make([]*resultRow, 0, len(allocs))
	for _, a := range allocs {
		rows = append(rows, &resultRow{
			Channel:           a.Channel,
			TotalSpend:        round2(a.TotalSpend),
			TotalRevenue:      round2(a.TotalRevenue),
			ROI:               round2(a.ROI),
			CAC:               round2(a.CAC),
			ConversionRate:    round2(a.ConversionRate),
			ROMI:              round2(a.ROMI),
			Conversions:       a.Conversions,
			Clicks:            a.Clicks,
			Impressions:       a.Impressions,
			OptimalAllocation: round2(a.OptimalAllocation),
			CurrentRevenue:    round2(a.CurrentRevenue),
			ExpectedRevenue:   round2(a.ExpectedRevenue),
			RevenueIncrease:   round2(a.RevenueIncrease),
		})
	}
	return rows
}

// WriteResultsCSV writes one row per channel allocation. Money and ratio columns
// are rounded to two decimals.
func WriteResultsCSV(ctx context.Context, path string, allocs []domain.Allocation) error {
	rows := resultRows(allocs)
	return writeAtomically(ctx, path, func(w io.Writer) error {
		return gocsv.Marshal(&rows, w)
	})
}

// WriteJSON writes v as indented JSON.
func WriteJSON(ctx context.Context, path string, v interface{}) error {
	return writeAtomically(ctx, path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// writeAtomically replaces path only after write succeeded and the data is synced.
func writeAtomically(ctx context.Context, path string, write func(w io.Writer) error) error {
	logger := zerolog.Ctx(ctx)

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if err := write(pendingFile); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("file written")
	return nil
}
