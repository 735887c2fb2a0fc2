package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/roi"
	"github.com/spf13/viper"
)

const EnvPrefix = "ROI"

type AnalysisSettings struct {
	Budget       float64 `mapstructure:"budget"`
	Top          int     `mapstructure:"top"`
	Review       int     `mapstructure:"review"`
	ReductionPct float64 `mapstructure:"reduction_pct"`
	Currency     string  `mapstructure:"currency"`
}

type StoreSettings struct {
	Path string `mapstructure:"path"`
}

type OutputSettings struct {
	Dir string `mapstructure:"dir"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
}

// Settings holds everything that can be set from a settings file or ROI_*
// environment variables.
type Settings struct {
	Analysis AnalysisSettings `mapstructure:"analysis"`
	Store    StoreSettings    `mapstructure:"store"`
	Output   OutputSettings   `mapstructure:"output"`
	Server   ServerSettings   `mapstructure:"server"`
	Log      LogSettings      `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.budget", roi.DefaultBudget)
	v.SetDefault("analysis.top", roi.DefaultTop)
	v.SetDefault("analysis.review", roi.DefaultReview)
	v.SetDefault("analysis.reduction_pct", roi.DefaultReductionPct)
	v.SetDefault("analysis.currency", roi.DefaultCurrency)
	v.SetDefault("store.path", "roi-atlas.db")
	v.SetDefault("output.dir", "reports")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
}

// LoadSettings reads the settings file at path, if any, and applies environment
// overrides such as ROI_ANALYSIS_BUDGET or ROI_SERVER_PORT.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	if !roi.ValidBudget(s.Analysis.Budget) {
		return fmt.Errorf("%w: analysis.budget must be a positive number, got %v", domain.ErrInvalidBudget, s.Analysis.Budget)
	}
	if s.Analysis.Top < 0 || s.Analysis.Review < 0 {
		return fmt.Errorf("analysis.top and analysis.review must not be negative")
	}
	if !(s.Analysis.ReductionPct >= 0 && s.Analysis.ReductionPct <= 100) {
		return fmt.Errorf("analysis.reduction_pct must be between 0 and 100, got %v", s.Analysis.ReductionPct)
	}
	return nil
}

// AnalysisOptions converts the analysis settings into analyzer options.
func (s *Settings) AnalysisOptions() roi.Options {
	return roi.Options{
		Budget:       s.Analysis.Budget,
		Top:          s.Analysis.Top,
		Review:       s.Analysis.Review,
		ReductionPct: s.Analysis.ReductionPct,
		Currency:     strings.ToUpper(s.Analysis.Currency),
	}
}
