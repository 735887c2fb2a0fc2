package main

import (
	"fmt"
	"os"

	roiatlas "github.com/de-tools/roi-atlas"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/runtime/terminal"
	"github.com/de-tools/roi-atlas/pkg/services/config"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/services/source/csvfile"
	"github.com/de-tools/roi-atlas/pkg/services/source/s3object"
	"github.com/de-tools/roi-atlas/pkg/services/source/warehouse"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	profiles, err := config.NewRegistry(config.DefaultProfilesPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load profiles: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Registry: source.NewRegistry(map[domain.SourceKind]source.Factory{
			domain.SourceKindCSV:        csvfile.Factory,
			domain.SourceKindS3:         s3object.Factory,
			domain.SourceKindSnowflake:  warehouse.SnowflakeFactory(profiles.Resolve),
			domain.SourceKindDatabricks: warehouse.DatabricksFactory(profiles.Resolve),
			domain.SourceKindSQLite:     warehouse.SQLiteFactory,
		}),
		Profiles: profiles,
		Output:   os.Stdout,
		Readme:   roiatlas.README,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
