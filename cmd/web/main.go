package main

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/server"
	"github.com/de-tools/roi-atlas/pkg/services/analysis"
	"github.com/de-tools/roi-atlas/pkg/services/config"
	"github.com/de-tools/roi-atlas/pkg/store/sqlite"
	sqlitecampaign "github.com/de-tools/roi-atlas/pkg/store/sqlite/campaign"
	sqliteruns "github.com/de-tools/roi-atlas/pkg/store/sqlite/runs"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	dbPath    string
	rateLimit int
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "roi-web",
		Short: "Start the web server for ROI Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Settings file (yaml, json or toml)")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Local store path (default from settings)")
	rootCmd.Flags().IntVar(&rateLimit, "rate-limit", 600, "API requests per minute per client IP, 0 disables")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(settings.Log.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.Log.Level, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if dbPath == "" {
		dbPath = settings.Store.Path
	}
	db, err := sqlite.NewDB(sqlite.DefaultSettings(dbPath))
	if err != nil {
		return fmt.Errorf("failed to create SQLite instance: %w", err)
	}
	defer db.Close()

	campaignStore, err := sqlitecampaign.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create campaign store: %w", err)
	}
	runStore, err := sqliteruns.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	svc := analysis.NewService(analysis.Dependencies{
		Campaigns: campaignStore,
		Runs:      runStore,
	})

	logger.Info().Msgf("Store at `%s` opened.", dbPath)

	host := settings.Server.Host
	port := settings.Server.Port
	// SERVER_HOST and SERVER_PORT from .env take precedence
	if v := os.Getenv("SERVER_HOST"); v != "" {
		host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port = v
	}
	if port == "" {
		return fmt.Errorf("missing server port configuration")
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:              net.JoinHostPort(host, port),
		RequestsPerMinute: rateLimit,
		Dependencies: server.Dependencies{
			Analysis: svc,
			Defaults: settings.AnalysisOptions(),
		},
	})
	return api.Start()
}
