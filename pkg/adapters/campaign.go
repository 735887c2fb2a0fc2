package adapters

import (
	"database/sql"
	"time"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/models/store"
)

const dateLayout = "2006-01-02"

func MapDomainRecordToStore(r domain.CampaignRecord) store.CampaignRecord {
	rec := store.CampaignRecord{
		Campaign:    r.Campaign,
		Channel:     r.Channel,
		Spend:       r.Spend,
		Revenue:     r.Revenue,
		Impressions: r.Impressions,
		Clicks:      r.Clicks,
		Conversions: r.Conversions,
	}
	if !r.Date.IsZero() {
		rec.Date = sql.NullString{String: r.Date.Format(dateLayout), Valid: true}
	}
	return rec
}

func MapDomainRecordsToStore(records []domain.CampaignRecord) []store.CampaignRecord {
	out := make([]store.CampaignRecord, 0, len(records))
	for _, r := range records {
		out = append(out, MapDomainRecordToStore(r))
	}
	return out
}

func MapStoreRecordToDomain(r store.CampaignRecord) domain.CampaignRecord {
	rec := domain.CampaignRecord{
		Campaign:    r.Campaign,
		Channel:     r.Channel,
		Spend:       r.Spend,
		Revenue:     r.Revenue,
		Impressions: r.Impressions,
		Clicks:      r.Clicks,
		Conversions: r.Conversions,
	}
	if r.Date.Valid {
		rec.Date, _ = time.Parse(dateLayout, r.Date.String)
	}
	return rec
}

func MapStoreRecordsToDomain(records []store.CampaignRecord) []domain.CampaignRecord {
	out := make([]domain.CampaignRecord, 0, len(records))
	for _, r := range records {
		out = append(out, MapStoreRecordToDomain(r))
	}
	return out
}

func MapRecordStatsStoreToDomain(stats *store.RecordStats) *domain.RecordStats {
	if stats == nil {
		return nil
	}

	out := &domain.RecordStats{
		RecordsCount: stats.RecordsCount,
		Batches:      stats.Batches,
	}
	if stats.FirstDate.Valid {
		if t, err := time.Parse(dateLayout, stats.FirstDate.String); err == nil {
			out.FirstDate = &t
		}
	}
	if stats.LastDate.Valid {
		if t, err := time.Parse(dateLayout, stats.LastDate.String); err == nil {
			out.LastDate = &t
		}
	}
	return out
}
