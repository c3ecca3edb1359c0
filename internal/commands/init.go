package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/config"
	"github.com/kontor-dev/kontor/internal/gitops"
	"github.com/kontor-dev/kontor/internal/ledger"
)

// chartFile is where init writes the chart of accounts for reference.
var chartFile = filepath.Join("accounts", "chart-of-accounts.csv")

func newInitCommand() *cobra.Command {
	var name string
	var chart string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new kontor project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, chart, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&chart, "chart", string(accounts.SKR03), "chart of accounts (SKR03 or SKR04)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(out io.Writer, dir, name, chart string, git bool) error {
	variant, err := accounts.ParseVariant(chart)
	if err != nil {
		return err
	}

	cfg := config.Default(name, string(variant))
	if err := config.Validate(cfg); err != nil {
		return err
	}

	for _, d := range []string{"accounts", "logs", "receipts", cfg.Export.Dir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := ledger.NewStore(dir).Init(); err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, chartFile))
	if err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := accounts.WriteChart(f, variant); err != nil {
		f.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	gitignore := config.EnvFile + "\n" + cfg.Export.Dir + "/\nreceipts/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !git {
		fmt.Fprintf(out, "Initialized kontor project at %s (%s)\n", dir, variant)
		return nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	hash, err := gitops.Commit(dir, "init: Initialize "+name, author(cfg))
	if errors.Is(err, gitops.ErrNothingToCommit) {
		fmt.Fprintf(out, "Initialized kontor project at %s (%s)\n", dir, variant)
		return nil
	}
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized kontor project at %s (%s, %s)\n", dir, variant, hash)
	return nil
}
