package commands

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/analysis"
	"github.com/de-tools/roi-atlas/pkg/services/config"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite/campaign"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite/runs"
)

// ReportHandler prints a report.
type ReportHandler interface {
	Handle(report *domain.Report) error
}

// Env is shared by all commands. Settings is set by the root command before any
// subcommand runs.
type Env struct {
	Registry      source.Registry
	Profiles      config.Registry
	Reporter      ReportHandler
	PlainReporter ReportHandler
	Output        io.Writer
	Readme        []byte
	Settings      *config.Settings
}

func (e *Env) reporter(format string) (ReportHandler, error) {
	switch format {
	case "", "table":
		return e.Reporter, nil
	case "plain":
		if e.PlainReporter != nil {
			return e.PlainReporter, nil
		}
		return e.Reporter, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (use table or plain)", format)
	}
}

func (e *Env) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	return e.Settings.Store.Path
}

type localStore struct {
	db        *sql.DB
	campaigns campaign.Store
	runs      runs.Store
}

func openStore(path string) (*localStore, error) {
	db, err := sqlite.NewDB(sqlite.DefaultSettings(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	campaigns, err := campaign.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create campaign store: %w", err)
	}
	runStore, err := runs.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run store: %w", err)
	}
	return &localStore{db: db, campaigns: campaigns, runs: runStore}, nil
}

func (s *localStore) Close() error {
	return s.db.Close()
}

func (e *Env) service(store *localStore) analysis.Service {
	deps := analysis.Dependencies{Registry: e.Registry}
	if store != nil {
		deps.Campaigns = store.campaigns
		deps.Runs = store.runs
	}
	return analysis.NewService(deps)
}

// parseSpecs applies the shared --profile and --query flags to warehouse sources.
func parseSpecs(args []string, profile, query string) ([]domain.SourceSpec, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one --source is required")
	}

	specs := make([]domain.SourceSpec, 0, len(args))
	for _, arg := range args {
		spec, err := source.ParseSpec(arg)
		if err != nil {
			return nil, err
		}
		switch spec.Kind {
		case domain.SourceKindSnowflake, domain.SourceKindDatabricks, domain.SourceKindSQLite:
			if spec.Profile == "" {
				spec.Profile = profile
			}
			if spec.Query == "" {
				spec.Query = query
			}
		case domain.SourceKindS3:
			if spec.Profile == "" {
				spec.Profile = profile
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
