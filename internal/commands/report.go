package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/ledger"
	"github.com/kontor-dev/kontor/internal/logging"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/report"
)

type reportOptions struct {
	year    int
	vendors int
	xlsx    string
}

func newReportCommand() *cobra.Command {
	var repoDir string
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize income and expenses for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(repoDir)
			if err != nil {
				return err
			}
			return runReport(cmd.OutOrStdout(), p, opts)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().IntVar(&opts.year, "year", time.Now().Year(), "calendar year")
	cmd.Flags().IntVar(&opts.vendors, "vendors", 10, "number of top vendors to list (0 for all)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "also write the report as an XLSX workbook")

	return cmd
}

func runReport(out io.Writer, p *project, opts reportOptions) error {
	store := ledger.NewStore(p.root)
	incomes, err := store.Incomes()
	if err != nil {
		return fmt.Errorf("loading incomes: %w", err)
	}
	expenses, err := store.Expenses()
	if err != nil {
		return fmt.Errorf("loading expenses: %w", err)
	}

	months := report.AggregateByMonth(incomes, expenses, opts.year)
	quarters := report.AggregateByQuarter(months)

	var inYear []model.Expense
	for _, e := range expenses {
		if e.Date.Year() == opts.year {
			inYear = append(inYear, e)
		}
	}
	limit := model.None[int]()
	if opts.vendors > 0 {
		limit = model.Some(opts.vendors)
	}
	categories := report.AggregateByCategory(inYear)
	vendors := report.AggregateByVendor(inYear, limit)
	lines := report.AggregateByFormLine(inYear)

	current := report.SummarizeYear(months)
	previous := report.SummarizeYear(report.AggregateByMonth(incomes, expenses, opts.year-1))
	comparisons := report.CompareYears(current, previous)

	fmt.Fprintf(out, "%s %d\n\n", p.cfg.Business.Name, opts.year)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tIncome\tExpenses\tProfit\tOutput tax\tInput tax\tNet tax\tEntries\t")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t\n", report.MonthLabel(m.Month),
			m.Income.StringFixed(2), m.Expenses.StringFixed(2), m.Profit.StringFixed(2),
			m.TaxCollected.StringFixed(2), m.TaxPaid.StringFixed(2),
			m.TaxCollected.Sub(m.TaxPaid).StringFixed(2), m.Transactions)
	}
	fmt.Fprintln(tw, "\t\t\t\t\t\t\t\t")
	for _, q := range quarters {
		fmt.Fprintf(tw, "Q%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t\n", q.Quarter,
			q.Income.StringFixed(2), q.Expenses.StringFixed(2), q.Profit.StringFixed(2),
			q.TaxCollected.StringFixed(2), q.TaxPaid.StringFixed(2),
			q.NetTaxLiability.StringFixed(2), q.Transactions)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := printBreakdown(out, "Expenses by category", categories); err != nil {
		return err
	}
	if err := printBreakdown(out, "Top vendors", vendors); err != nil {
		return err
	}

	if len(lines) > 0 {
		fmt.Fprintln(out, "\nAnlage EÜR")
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, l := range lines {
			fmt.Fprintf(tw, "  Zeile %d\t%s\t(%d)\n", l.Line, l.Amount.StringFixed(2), l.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nCompared to %d\n", opts.year-1)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range comparisons {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s%%\t%s\n", c.Metric,
			c.Current.StringFixed(2), c.Previous.StringFixed(2), c.PercentChange.StringFixed(2), c.Trend)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.xlsx == "" {
		return nil
	}

	f, err := os.Create(opts.xlsx)
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}
	defer f.Close()
	err = report.WriteWorkbook(f, report.Workbook{
		Months:     months,
		Quarters:   quarters,
		Categories: categories,
		Vendors:    vendors,
	})
	if err != nil {
		return err
	}
	logging.For("report").WithField("file", opts.xlsx).Info("workbook written")
	return f.Close()
}

func printBreakdown(out io.Writer, title string, rows []report.Breakdown) error {
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\n%s\n", title)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, b := range rows {
		fmt.Fprintf(tw, "  %s\t%s\t%.1f%%\t%d\n", b.Key, b.Amount.StringFixed(2), b.Percentage, b.Count)
	}
	return tw.Flush()
}
