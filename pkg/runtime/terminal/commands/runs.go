package commands

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/roi"
	"github.com/spf13/cobra"
)

type RunsCmd struct {
	env   *Env
	limit int
	db    string
}

func NewRunsCmd(env *Env) *cobra.Command {
	rc := &RunsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List saved analysis runs or show one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().IntVar(&rc.limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().StringVar(&rc.db, "db", "", "Local store path (default from settings)")

	return cmd
}

var runFuncs = template.FuncMap{
	"money": roi.FormatMoney,
	"pct":   func(v float64) string { return roi.FormatPercent(v, 1) },
	"date":  func(r domain.AnalysisRun) string { return r.CreatedAt.Local().Format("2006-01-02 15:04") },
	"pad":   func(width int, s string) string { return fmt.Sprintf("%-*s", width, s) },
	"rpad":  func(width int, s string) string { return fmt.Sprintf("%*s", width, s) },
	"line":  func(width int) string { return strings.Repeat("-", width) },
}

const runListTemplate = `{{pad 36 "ID"}}  {{pad 16 "Created"}}  {{rpad 8 "Records"}}  {{rpad 14 "Budget"}}  {{rpad 14 "Increase"}}  Source
{{line 120}}
{{range .}}{{pad 36 .ID}}  {{pad 16 (date .)}}  {{rpad 8 (printf "%d" .RecordsCount)}}  {{rpad 14 (money .Currency .Budget)}}  {{rpad 14 (money .Currency .RevenueIncrease)}}  {{.Source}}
{{end}}`

const runTemplate = `Run {{.ID}} ({{date .}})
Source: {{.Source}}
Records: {{.RecordsCount}}, spend {{money .Currency .TotalSpend}}, revenue {{money .Currency .TotalRevenue}}
Budget: {{money .Currency .Budget}}, expected revenue increase {{money .Currency .RevenueIncrease}}

{{pad 20 "Channel"}}  {{rpad 10 "ROI"}}  {{rpad 14 "Allocation"}}  {{rpad 14 "Expected"}}
{{line 64}}
{{range .Results}}{{pad 20 .Channel}}  {{rpad 10 (pct .ROI)}}  {{rpad 14 (money $.Currency .OptimalAllocation)}}  {{rpad 14 (money $.Currency .ExpectedRevenue)}}
{{end}}`

func (rc *RunsCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(rc.env.dbPath(rc.db))
	if err != nil {
		return err
	}
	defer store.Close()
	svc := rc.env.service(store)

	if len(args) == 1 {
		run, err := svc.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		return template.Must(template.New("run").Funcs(runFuncs).Parse(runTemplate)).Execute(rc.env.Output, *run)
	}

	list, err := svc.ListRuns(ctx, rc.limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(rc.env.Output, "No analysis runs saved yet.")
		return nil
	}
	return template.Must(template.New("runs").Funcs(runFuncs).Parse(runListTemplate)).Execute(rc.env.Output, list)
}
