package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/roi-atlas/pkg/adapters"
	"github.com/de-tools/roi-atlas/pkg/services/ingest"
	"github.com/spf13/cobra"
)

type IngestCmd struct {
	env     *Env
	sources []string
	profile string
	query   string
	db      string
	delete  string
}

func NewIngestCmd(env *Env) *cobra.Command {
	ic := &IngestCmd{env: env}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Copy campaign records from sources into the local store",
		Example: `  roi ingest --source data/campaigns.csv
  roi ingest --delete 3f2b9c1e-7d7a-4c1e-9a55-0d2f6f1c8b42`,
		RunE: ic.run,
	}

	cmd.Flags().StringArrayVar(&ic.sources, "source", nil, "Record source as kind:location; repeatable")
	cmd.Flags().StringVar(&ic.profile, "profile", "", "Credentials profile for warehouse and S3 sources")
	cmd.Flags().StringVar(&ic.query, "query", "", "Extraction query for warehouse sources")
	cmd.Flags().StringVar(&ic.db, "db", "", "Local store path (default from settings)")
	cmd.Flags().StringVar(&ic.delete, "delete", "", "Remove the records of a previously ingested batch")

	cmd.MarkFlagsOneRequired("source", "delete")
	cmd.MarkFlagsMutuallyExclusive("source", "delete")

	return cmd
}

func (ic *IngestCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ic.env.dbPath(ic.db))
	if err != nil {
		return err
	}
	defer store.Close()
	runner := ingest.NewRunner(store.db, ic.env.Registry, store.campaigns)

	if ic.delete != "" {
		deleted, err := runner.DeleteBatch(ctx, ic.delete)
		if err != nil {
			return fmt.Errorf("failed to delete batch: %w", err)
		}
		fmt.Fprintf(ic.env.Output, "Deleted %d records of batch %s\n", deleted, ic.delete)
		return ic.printStats(cmd, store)
	}

	specs, err := parseSpecs(ic.sources, ic.profile, ic.query)
	if err != nil {
		return err
	}

	res, err := runner.Ingest(ctx, specs)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(ic.env.Output, "Ingested %d records as batch %s in %s\n", res.Records, res.BatchID, res.Duration.Round(time.Millisecond))
	return ic.printStats(cmd, store)
}

func (ic *IngestCmd) printStats(cmd *cobra.Command, store *localStore) error {
	ctx := cmd.Context()

	stored, err := store.campaigns.Stats(ctx)
	if err != nil {
		return err
	}
	stats := adapters.MapRecordStatsStoreToDomain(stored)

	fmt.Fprintf(ic.env.Output, "Store now holds %d records in %d batches", stats.RecordsCount, stats.Batches)
	if stats.FirstDate != nil && stats.LastDate != nil {
		fmt.Fprintf(ic.env.Output, " from %s to %s", stats.FirstDate.Format(dateLayout), stats.LastDate.Format(dateLayout))
	}
	fmt.Fprintln(ic.env.Output)
	return nil
}
