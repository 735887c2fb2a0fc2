package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const campaigns = `Date,Campaign,Channel,Spend,Revenue,Impressions,Clicks,Conversions
2025-01-01,Winter Sale,Email,1000,5000,10000,500,50
2025-01-02,Brand,Search,"$4,000.50",8000,40000,1500,80
`

func TestDecode(t *testing.T) {
	records, err := Decode(strings.NewReader(campaigns))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.CampaignRecord{
		Date:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Campaign:    "Winter Sale",
		Channel:     "Email",
		Spend:       1000,
		Revenue:     5000,
		Impressions: 10000,
		Clicks:      500,
		Conversions: 50,
	}, records[0])
	assert.Equal(t, 4000.5, records[1].Spend)
}

func TestDecode_OptionalColumns(t *testing.T) {
	in := "Channel,Spend,Revenue,Conversions,Clicks,Impressions\nSocial,10,20,1,2,3\n"

	records, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Date.IsZero())
	assert.Equal(t, "Social", records[0].Channel)
	assert.Equal(t, int64(3), records[0].Impressions)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		message string
	}{
		{
			name:    "missing columns",
			input:   "Channel,Spend\nEmail,10\n",
			wantErr: domain.ErrMissingColumns,
			message: "Revenue, Impressions, Clicks, Conversions",
		},
		{
			name:    "empty input",
			input:   "  ",
			wantErr: domain.ErrMissingColumns,
		},
		{
			name:    "negative spend",
			input:   "Channel,Spend,Revenue,Impressions,Clicks,Conversions\nEmail,-1,0,0,0,0\n",
			wantErr: domain.ErrInvalidRecord,
			message: "line 2",
		},
		{
			name:    "empty channel",
			input:   "Channel,Spend,Revenue,Impressions,Clicks,Conversions\nEmail,1,1,1,1,1\n ,1,1,1,1,1\n",
			wantErr: domain.ErrInvalidRecord,
			message: "line 3",
		},
		{
			name:    "fractional count",
			input:   "Channel,Spend,Revenue,Impressions,Clicks,Conversions\nEmail,1,1,1,1,1.5\n",
			wantErr: domain.ErrInvalidRecord,
			message: "whole number",
		},
		{
			name:    "bad date",
			input:   "Date,Channel,Spend,Revenue,Impressions,Clicks,Conversions\nyesterday,Email,1,1,1,1,1\n",
			wantErr: domain.ErrInvalidRecord,
			message: "invalid date",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.message != "" {
				assert.Contains(t, err.Error(), tc.message)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-04", "2025/03/04", "03/04/2025", "2025-03-04T00:00:00Z"} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), d, in)
	}
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketing_campaigns.csv")
	require.NoError(t, os.WriteFile(path, []byte(campaigns), 0o644))

	src, err := Factory(context.Background(), domain.SourceSpec{Kind: domain.SourceKindCSV, Location: path})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "csv:"+path, src.Name())
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = NewSource(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
