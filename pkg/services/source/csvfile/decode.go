package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/gocarina/gocsv"
)

// RequiredColumns lists the headers every campaign CSV must carry.
var RequiredColumns = []string{"Channel", "Spend", "Revenue", "Impressions", "Clicks", "Conversions"}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02", "01/02/2006"}

type row struct {
	Date        string `csv:"Date"`
	Campaign    string `csv:"Campaign"`
	Channel     string `csv:"Channel"`
	Spend       string `csv:"Spend"`
	Revenue     string `csv:"Revenue"`
	Impressions string `csv:"Impressions"`
	Clicks      string `csv:"Clicks"`
	Conversions string `csv:"Conversions"`
}

// Decode parses campaign records from CSV content with a header line.
func Decode(r io.Reader) ([]domain.CampaignRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrMissingColumns)
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	records := make([]domain.CampaignRecord, 0, len(rows))
	for i, rw := range rows {
		rec, err := rw.toDomain()
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidRecord, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimPrefix(h, "\ufeff")] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func (r row) toDomain() (domain.CampaignRecord, error) {
	rec := domain.CampaignRecord{
		Campaign: strings.TrimSpace(r.Campaign),
		Channel:  strings.TrimSpace(r.Channel),
	}
	if rec.Channel == "" {
		return rec, fmt.Errorf("channel is empty")
	}

	var err error
	if rec.Date, err = ParseDate(r.Date); err != nil {
		return rec, err
	}
	if rec.Spend, err = ParseAmount("Spend", r.Spend); err != nil {
		return rec, err
	}
	if rec.Revenue, err = ParseAmount("Revenue", r.Revenue); err != nil {
		return rec, err
	}
	if rec.Impressions, err = ParseCount("Impressions", r.Impressions); err != nil {
		return rec, err
	}
	if rec.Clicks, err = ParseCount("Clicks", r.Clicks); err != nil {
		return rec, err
	}
	if rec.Conversions, err = ParseCount("Conversions", r.Conversions); err != nil {
		return rec, err
	}
	return rec, nil
}

// ParseDate accepts an empty value or one of the supported date layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// ParseAmount parses a non-negative money amount. Currency signs and thousands
// separators are ignored; an empty value is zero.
func ParseAmount(field, value string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", field, value)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %q", field, value)
	}
	return v, nil
}

// ParseCount parses a non-negative whole number; an empty value is zero.
func ParseCount(field, value string) (int64, error) {
	v, err := ParseAmount(field, value)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be a whole number, got %q", field, value)
	}
	return int64(v), nil
}
