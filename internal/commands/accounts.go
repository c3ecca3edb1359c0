package commands

import (
	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/logging"
)

func newAccountsCommand() *cobra.Command {
	var repoDir, chart string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Print the category to account mapping as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if chart == "" {
				chart = string(accounts.SKR03)
				if p, err := openProject(repoDir); err == nil {
					chart = string(p.variant)
				} else {
					logging.For("accounts").WithError(err).Debug("no project config, using SKR03")
				}
			}
			v, err := accounts.ParseVariant(chart)
			if err != nil {
				return err
			}
			return accounts.WriteChart(cmd.OutOrStdout(), v)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&chart, "chart", "", "chart of accounts (default: datev.chart from kontor.yaml, else SKR03)")

	return cmd
}
