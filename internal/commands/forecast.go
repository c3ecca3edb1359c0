package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/forecast"
	"github.com/kontor-dev/kontor/internal/ledger"
	"github.com/kontor-dev/kontor/internal/logging"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

func newForecastCommand() *cobra.Command {
	var repoDir, asOf string
	var lookback int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Estimate the VAT payable for the next quarter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if asOf != "" {
				t, err := time.Parse(period.DateFormat, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of %q: expected YYYY-MM-DD", asOf)
				}
				at = t
			}
			p, err := openProject(repoDir)
			if err != nil {
				return err
			}
			return runForecast(cmd.OutOrStdout(), p, at, lookback)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&lookback, "lookback", forecast.DefaultLookback, "months of history to consider")

	return cmd
}

func runForecast(out io.Writer, p *project, asOf time.Time, lookback int) error {
	store := ledger.NewStore(p.root)
	incomes, err := store.Incomes()
	if err != nil {
		return fmt.Errorf("loading incomes: %w", err)
	}
	expenses, err := store.Expenses()
	if err != nil {
		return fmt.Errorf("loading expenses: %w", err)
	}

	history := forecast.History(incomes, expenses, asOf, lookback)
	logging.For("forecast").WithField("months", len(history)).Debug("history collected")

	fc := forecast.Project(history, forecast.Options{
		AsOf:      asOf,
		Extension: p.cfg.Tax.FilingExtension,
		Rate:      model.Some(model.TaxRate(p.cfg.Tax.StandardRate)),
	})

	fmt.Fprintf(out, "Forecast %s\n", fc.Period)
	fmt.Fprintf(out, "  Income:      %s\n", fc.ProjectedIncome.StringFixed(2))
	fmt.Fprintf(out, "  Expenses:    %s\n", fc.ProjectedExpenses.StringFixed(2))
	fmt.Fprintf(out, "  Output tax:  %s\n", fc.ProjectedOutputTax.StringFixed(2))
	fmt.Fprintf(out, "  Input tax:   %s\n", fc.ProjectedInputTax.StringFixed(2))
	fmt.Fprintf(out, "  Zahllast:    %s (%s to %s)\n", fc.EstimatedZahllast.StringFixed(2),
		fc.Range.Low.StringFixed(2), fc.Range.High.StringFixed(2))
	fmt.Fprintf(out, "  Confidence:  %s (%d months)\n", fc.Confidence, fc.DataPoints)
	fmt.Fprintf(out, "  Due:         %s\n", fc.DueDate.Format(period.DateFormat))
	return nil
}
