package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/roi-atlas/pkg/adapters"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/roi-atlas/pkg/services/analysis"
	"github.com/de-tools/roi-atlas/pkg/services/roi"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type AnalyzeCmd struct {
	env *Env

	sources   []string
	profile   string
	query     string
	budget    float64
	top       int
	review    int
	reduction float64
	currency  string
	out       string
	format    string
	noCharts  bool
	save      bool
	fromStore bool
	db        string
	from      string
	to        string
	channels  []string
}

func NewAnalyzeCmd(env *Env) *cobra.Command {
	ac := &AnalyzeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze channel ROI and recommend a budget reallocation",
		Example: `  roi analyze --source data/campaigns.csv --budget 50000
  roi analyze --source snowflake:marketing --query "SELECT * FROM campaign_performance"
  roi analyze --from-store --from 2025-01-01 --channel Email --channel Search --save`,
		RunE: ac.run,
	}

	cmd.Flags().StringArrayVar(&ac.sources, "source", nil, "Record source as kind:location (csv, s3, snowflake, databricks, sqlite); repeatable")
	cmd.Flags().StringVar(&ac.profile, "profile", "", "Credentials profile for warehouse and S3 sources")
	cmd.Flags().StringVar(&ac.query, "query", "", "Extraction query for warehouse sources")
	cmd.Flags().Float64Var(&ac.budget, "budget", roi.DefaultBudget, "Budget to allocate across channels")
	cmd.Flags().IntVar(&ac.top, "top", roi.DefaultTop, "Number of top performing channels to report")
	cmd.Flags().IntVar(&ac.review, "review", roi.DefaultReview, "Number of channels to flag for review")
	cmd.Flags().Float64Var(&ac.reduction, "reduction", roi.DefaultReductionPct, "Suggested spend reduction for underperformers, in percent")
	cmd.Flags().StringVar(&ac.currency, "currency", roi.DefaultCurrency, "Currency code used in the report")
	cmd.Flags().StringVar(&ac.out, "out", "", "Directory for the CSV, JSON and HTML outputs (default from settings)")
	cmd.Flags().StringVar(&ac.format, "format", "table", "Console report format: table or plain")
	cmd.Flags().BoolVar(&ac.noCharts, "no-charts", false, "Skip the HTML dashboard")
	cmd.Flags().BoolVar(&ac.save, "save", false, "Record the analysis run in the local store")
	cmd.Flags().BoolVar(&ac.fromStore, "from-store", false, "Analyze records ingested into the local store")
	cmd.Flags().StringVar(&ac.db, "db", "", "Local store path (default from settings)")
	cmd.Flags().StringVar(&ac.from, "from", "", "First day of stored records to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ac.to, "to", "", "Last day of stored records to include (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&ac.channels, "channel", nil, "Restrict stored records to a channel; repeatable")

	cmd.MarkFlagsMutuallyExclusive("source", "from-store")

	return cmd
}

// options starts from the settings and applies the flags set on the command line.
func (ac *AnalyzeCmd) options(cmd *cobra.Command) roi.Options {
	opts := ac.env.Settings.AnalysisOptions()
	flags := cmd.Flags()
	if flags.Changed("budget") {
		opts.Budget = ac.budget
	}
	if flags.Changed("top") {
		opts.Top = ac.top
	}
	if flags.Changed("review") {
		opts.Review = ac.review
	}
	if flags.Changed("reduction") {
		opts.ReductionPct = ac.reduction
	}
	if flags.Changed("currency") {
		opts.Currency = strings.ToUpper(ac.currency)
	}
	return opts
}

func (ac *AnalyzeCmd) filter() (domain.RecordFilter, error) {
	var filter domain.RecordFilter
	if ac.from != "" {
		from, err := time.Parse(dateLayout, ac.from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from date %q: %w", ac.from, err)
		}
		filter.From = &from
	}
	if ac.to != "" {
		to, err := time.Parse(dateLayout, ac.to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to date %q: %w", ac.to, err)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, fmt.Errorf("--to must not be before --from")
	}
	filter.Channels = ac.channels
	return filter, nil
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	opts := ac.options(cmd)
	if !roi.ValidBudget(opts.Budget) {
		return fmt.Errorf("%w: --budget must be a positive number", domain.ErrInvalidBudget)
	}
	if opts.Top < 0 || opts.Review < 0 {
		return fmt.Errorf("--top and --review must not be negative")
	}
	if !(opts.ReductionPct >= 0 && opts.ReductionPct <= 100) {
		return fmt.Errorf("--reduction must be between 0 and 100")
	}
	reporter, err := ac.env.reporter(ac.format)
	if err != nil {
		return err
	}

	var store *localStore
	if ac.fromStore || ac.save {
		store, err = openStore(ac.env.dbPath(ac.db))
		if err != nil {
			return err
		}
		defer store.Close()
	}
	svc := ac.env.service(store)

	var result *analysis.Result
	if ac.fromStore {
		filter, err := ac.filter()
		if err != nil {
			return err
		}
		result, err = svc.AnalyzeStored(ctx, filter, opts)
		if err != nil {
			return analyzeError(err)
		}
	} else {
		specs, err := parseSpecs(ac.sources, ac.profile, ac.query)
		if err != nil {
			return err
		}
		result, err = svc.AnalyzeSources(ctx, specs, opts)
		if err != nil {
			return analyzeError(err)
		}
	}

	if err := reporter.Handle(result.Analysis.Report); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if ac.save {
		if _, err := svc.SaveRun(ctx, result); err != nil {
			return err
		}
	}

	dir := ac.out
	if dir == "" {
		dir = ac.env.Settings.Output.Dir
	}
	files, err := writeOutputs(cmd, dir, result, !ac.noCharts)
	if err != nil {
		return err
	}

	fmt.Fprintln(ac.env.Output)
	for _, f := range files {
		fmt.Fprintf(ac.env.Output, "Wrote %s\n", f)
	}
	if result.RunID != "" {
		fmt.Fprintf(ac.env.Output, "Saved analysis run %s\n", result.RunID)
	}

	logger.Info().
		Str("source", result.Source).
		Int("records", result.Records).
		Str("output_dir", dir).
		Msg("analysis complete")
	return nil
}

func writeOutputs(cmd *cobra.Command, dir string, result *analysis.Result, charts bool) ([]string, error) {
	ctx := cmd.Context()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	an := result.Analysis
	resultsPath := filepath.Join(dir, export.ResultsFile)
	if err := export.WriteResultsCSV(ctx, resultsPath, an.Allocations); err != nil {
		return nil, err
	}

	doc := adapters.MapAnalysisDomainToApi(an)
	doc.RunID = result.RunID
	jsonPath := filepath.Join(dir, export.JSONFile)
	if err := export.WriteJSON(ctx, jsonPath, doc); err != nil {
		return nil, err
	}

	files := []string{resultsPath, jsonPath}
	if charts {
		dashboardPath := filepath.Join(dir, export.DashboardFile)
		if err := export.WriteDashboard(ctx, dashboardPath, an.Metrics, an.Trend); err != nil {
			return nil, err
		}
		files = append(files, dashboardPath)
	}
	return files, nil
}

func analyzeError(err error) error {
	if errors.Is(err, domain.ErrNoRecords) {
		return fmt.Errorf("nothing to analyze: %w", err)
	}
	return fmt.Errorf("analysis failed: %w", err)
}
