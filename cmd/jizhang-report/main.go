// Command jizhang-report prints a period summary and category ranking for
// one user from the configured backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"jizhang/internal/cli"
	"jizhang/internal/core"
	"jizhang/internal/ledger"
	"jizhang/internal/period"
	"jizhang/internal/ranking"
	"jizhang/internal/services"
)

type report struct {
	Summary ledger.Summary  `json:"summary"`
	Ranking []ranking.Entry `json:"ranking"`
}

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(os.Stderr)

	fs := flag.NewFlagSet("jizhang-report", flag.ExitOnError)
	user := fs.String("user", cfg.SeedUser, "user id")
	kindFlag := fs.String("kind", "month", "period kind: week, month or year")
	dateFlag := fs.String("date", "", "any date inside the period, YYYY-MM-DD (default today)")
	typeFlag := fs.String("type", "expense", "record kind ranked: expense or income")
	groupFlag := fs.String("group", "day", "bucket grouping: day, month or year")
	top := fs.Int("top", cfg.RankingTopN, "ranking size")
	asJSON := fs.Bool("json", false, "print JSON instead of tables")
	_ = fs.Parse(os.Args[1:])

	kind, err := period.ParseKind(*kindFlag)
	if err != nil {
		fatal(err)
	}
	recordKind, err := core.ParseKind(*typeFlag)
	if err != nil {
		fatal(err)
	}
	grouping, err := ledger.ParseGrouping(*groupFlag)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	store, cleanup := cli.InitBackend(ctx, logger, cfg)
	defer cleanup()

	reports := services.NewReportService(store, services.ReportOptions{TopN: cfg.RankingTopN, Logger: logger})
	date := reports.Today()
	if *dateFlag != "" {
		if date, err = core.ParseDate(*dateFlag); err != nil {
			fatal(err)
		}
	}

	var r report
	if r.Summary, err = reports.Summary(ctx, *user, kind, date, grouping); err != nil {
		fatal(err)
	}
	if r.Ranking, err = reports.Ranking(ctx, *user, kind, date, recordKind, *top); err != nil {
		fatal(err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			fatal(err)
		}
		return
	}
	if err := render(os.Stdout, r); err != nil {
		fatal(err)
	}
}

// render prints the report as aligned plain-text tables.
func render(out io.Writer, r report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	s := r.Summary

	fmt.Fprintf(w, "%s\t%s ~ %s\t\n", s.Period.Label, s.Period.Start, s.Period.End.AddDays(-1))
	fmt.Fprintf(w, "income\t%s\t\n", s.Totals.IncomeText)
	fmt.Fprintf(w, "expense\t%s\t\n", s.Totals.ExpenseText)
	fmt.Fprintf(w, "balance\t%s\t\n", s.Totals.BalanceText)
	if s.Comparison.Text != "" {
		fmt.Fprintf(w, "vs previous\t%s\t\n", s.Comparison.Text)
	}
	fmt.Fprintln(w, "\t\t")

	for _, b := range s.Buckets {
		if len(b.RecordIDs) == 0 {
			continue
		}
		label := b.Label
		if b.Weekday != "" {
			label += " " + b.Weekday
		}
		fmt.Fprintf(w, "%s\t+%s\t-%s\t\n", label, b.Totals.IncomeText, b.Totals.ExpenseText)
	}
	fmt.Fprintln(w, "\t\t")

	for i, e := range r.Ranking {
		fmt.Fprintf(w, "%d. %s %s\t%s\t%d%%\t%d\t\n", i+1, e.CategoryIcon, e.CategoryName, e.AmountText, e.Percentage, e.Count)
	}
	return w.Flush()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "jizhang-report:", err)
	os.Exit(1)
}
