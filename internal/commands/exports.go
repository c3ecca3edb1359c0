package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/exportlog"
)

func newExportsCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "exports [id]",
		Short: "List written exports, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid export id %q: %w", args[0], err)
				}
				return runShowExport(cmd.OutOrStdout(), root, id)
			}
			return runListExports(cmd.OutOrStdout(), root)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}

func runListExports(out io.Writer, root string) error {
	entries, err := exportlog.Read(root)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No exports yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d records\t%s\n",
			e.ID, e.Timestamp.Format(time.RFC3339), e.Format, e.Period, e.Records, e.File)
	}
	return tw.Flush()
}

func runShowExport(out io.Writer, root string, id uuid.UUID) error {
	e, ok, err := exportlog.Find(root, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("export %s not found", id)
	}

	fmt.Fprintf(out, "ID:        %s\n", e.ID)
	fmt.Fprintf(out, "Written:   %s\n", e.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(out, "Format:    %s\n", e.Format)
	fmt.Fprintf(out, "Period:    %s\n", e.Period)
	fmt.Fprintf(out, "Records:   %d\n", e.Records)
	fmt.Fprintf(out, "Warnings:  %d\n", e.Warnings)
	fmt.Fprintf(out, "File:      %s\n", e.File)
	return nil
}
