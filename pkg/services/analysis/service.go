package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/adapters"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/roi"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite/campaign"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite/runs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result is an analysis together with where its records came from.
type Result struct {
	Analysis *domain.Analysis
	Source   string
	Records  int
	RunID    string
}

type Service interface {
	AnalyzeSources(ctx context.Context, specs []domain.SourceSpec, opts roi.Options) (*Result, error)
	AnalyzeStored(ctx context.Context, filter domain.RecordFilter, opts roi.Options) (*Result, error)
	ChannelMetrics(ctx context.Context, filter domain.RecordFilter) ([]domain.ChannelMetrics, error)
	Optimize(ctx context.Context, filter domain.RecordFilter, budget float64) ([]domain.Allocation, error)
	SaveRun(ctx context.Context, result *Result) (string, error)
	ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error)
	GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error)
}

type Dependencies struct {
	Registry  source.Registry
	Campaigns campaign.Store // optional
	Runs      runs.Store     // optional
	NewID     func() string
}

type service struct {
	deps Dependencies
}

func NewService(deps Dependencies) Service {
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &service{deps: deps}
}

func (s *service) AnalyzeSources(ctx context.Context, specs []domain.SourceSpec, opts roi.Options) (*Result, error) {
	if s.deps.Registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}
	records, err := source.LoadAll(ctx, s.deps.Registry, specs)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.String())
	}
	return s.analyze(ctx, strings.Join(names, ","), records, opts)
}

func (s *service) AnalyzeStored(ctx context.Context, filter domain.RecordFilter, opts roi.Options) (*Result, error) {
	records, err := s.storedRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, "store", records, opts)
}

func (s *service) ChannelMetrics(ctx context.Context, filter domain.RecordFilter) ([]domain.ChannelMetrics, error) {
	records, err := s.storedRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	return roi.CalculateChannelMetrics(records), nil
}

func (s *service) Optimize(ctx context.Context, filter domain.RecordFilter, budget float64) ([]domain.Allocation, error) {
	metrics, err := s.ChannelMetrics(ctx, filter)
	if err != nil {
		return nil, err
	}
	return roi.IdentifyOptimizationOpportunities(metrics, budget)
}

func (s *service) SaveRun(ctx context.Context, result *Result) (string, error) {
	if s.deps.Runs == nil {
		return "", fmt.Errorf("run store is not configured")
	}

	id := s.deps.NewID()
	run, err := adapters.MapAnalysisToStoreRun(id, result.Source, result.Records, result.Analysis)
	if err != nil {
		return "", err
	}
	if err := s.deps.Runs.Create(ctx, run); err != nil {
		return "", fmt.Errorf("failed to save analysis run: %w", err)
	}

	result.RunID = id
	zerolog.Ctx(ctx).Info().Str("run_id", id).Str("source", result.Source).Msg("analysis run saved")
	return id, nil
}

func (s *service) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if s.deps.Runs == nil {
		return nil, fmt.Errorf("run store is not configured")
	}
	stored, err := s.deps.Runs.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.AnalysisRun, 0, len(stored))
	for _, r := range stored {
		run, err := adapters.MapStoreRunToDomain(r)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func (s *service) GetRun(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	if s.deps.Runs == nil {
		return nil, fmt.Errorf("run store is not configured")
	}
	stored, err := s.deps.Runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	run, err := adapters.MapStoreRunToDomain(*stored)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *service) storedRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.CampaignRecord, error) {
	if s.deps.Campaigns == nil {
		return nil, fmt.Errorf("campaign store is not configured")
	}
	stored, err := s.deps.Campaigns.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, domain.ErrNoRecords
	}
	return adapters.MapStoreRecordsToDomain(stored), nil
}

func (s *service) analyze(ctx context.Context, src string, records []domain.CampaignRecord, opts roi.Options) (*Result, error) {
	an, err := roi.NewAnalyzer(opts).GenerateRecommendations(ctx, records)
	if err != nil {
		return nil, err
	}
	return &Result{Analysis: an, Source: src, Records: len(records)}, nil
}
