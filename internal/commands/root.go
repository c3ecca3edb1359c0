package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/buildinfo"
	"github.com/kontor-dev/kontor/internal/config"
	"github.com/kontor-dev/kontor/internal/gitops"
	"github.com/kontor-dev/kontor/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "kontor",
		Short:   "DATEV export and VAT forecast for freelancers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Configure(cmd.ErrOrStderr(), verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newExportsCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newForecastCommand())
	rootCmd.AddCommand(newAccountsCommand())

	return rootCmd
}

func author(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}

type project struct {
	root    string
	cfg     *config.Config
	variant accounts.Variant
}

func openProject(repoDir string) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadProject(root)
	if err != nil {
		return nil, err
	}
	variant, err := accounts.ParseVariant(cfg.DATEV.Chart)
	if err != nil {
		return nil, err
	}
	return &project{root: root, cfg: cfg, variant: variant}, nil
}
