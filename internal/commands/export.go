package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kontor-dev/kontor/internal/buildinfo"
	"github.com/kontor-dev/kontor/internal/datev"
	"github.com/kontor-dev/kontor/internal/exportlog"
	"github.com/kontor-dev/kontor/internal/gitops"
	"github.com/kontor-dev/kontor/internal/ledger"
	"github.com/kontor-dev/kontor/internal/logging"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

func newExportCommand() *cobra.Command {
	var repoDir, periodFlag, from, to, outDir string
	var noCommit bool

	cmd := &cobra.Command{
		Use:       "export <csv|xml>",
		Short:     "Write a DATEV booking batch for a period",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(datev.FormatCSV), string(datev.FormatXML)},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := datev.ParseFormat(args[0])
			if err != nil {
				return err
			}
			r, err := exportRange(periodFlag, from, to)
			if err != nil {
				return err
			}
			p, err := openProject(repoDir)
			if err != nil {
				return err
			}
			return runExport(cmd.OutOrStdout(), p, format, r, outDir, !noCommit)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&periodFlag, "period", "", "period: 2025, 2025-Q1 or 2025-03")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: export.dir from kontor.yaml)")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "do not commit the export log")
	cmd.MarkFlagsMutuallyExclusive("period", "from")
	cmd.MarkFlagsMutuallyExclusive("period", "to")
	cmd.MarkFlagsRequiredTogether("from", "to")

	return cmd
}

func exportRange(periodFlag, from, to string) (period.Range, error) {
	switch {
	case periodFlag != "":
		return period.Parse(periodFlag)
	case from != "":
		return period.Between(from, to)
	}
	return period.Range{}, errors.New("either --period or --from/--to is required")
}

func runExport(out io.Writer, p *project, format datev.Format, r period.Range, outDir string, commit bool) error {
	log := logging.For("export")

	l, err := ledger.NewStore(p.root).Load(r)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}
	log.WithFields(map[string]any{
		"period":       r.String(),
		"incomes":      len(l.Incomes),
		"expenses":     len(l.Expenses),
		"depreciation": len(l.Depreciation),
	}).Debug("ledger loaded")

	exp, err := datev.Build(l, format, datev.Options{
		Variant:     p.variant,
		Period:      r,
		Generator:   buildinfo.Generator(),
		GeneratedAt: time.Now().UTC(),
		Consultant:  model.NonEmpty(p.cfg.DATEV.ConsultantNumber),
		Client:      model.NonEmpty(p.cfg.DATEV.ClientNumber),
	})
	if err != nil {
		return err
	}
	for _, w := range exp.Warnings {
		log.Warn(w)
	}

	if outDir == "" {
		outDir = filepath.Join(p.root, p.cfg.Export.Dir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(outDir, exp.Filename)
	if err := os.WriteFile(path, exp.Payload, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	file := path
	if rel, err := filepath.Rel(p.root, path); err == nil {
		file = rel
	}
	entry := exportlog.NewEntry(string(format), r, exp.Records, len(exp.Warnings), file)
	if err := exportlog.Append(p.root, []exportlog.Entry{entry}); err != nil {
		log.WithError(err).Warn("failed to write export log")
	} else if commit && gitops.IsRepo(p.root) {
		msg := fmt.Sprintf("export: %s %s (%d records)", format, r, exp.Records)
		if hash, err := gitops.Commit(p.root, msg, author(p.cfg), exportlog.File); err != nil {
			log.WithError(err).Warn("failed to commit export log")
		} else {
			log.WithField("commit", hash).Debug("export log committed")
		}
	}

	log.WithFields(map[string]any{
		"records":  exp.Records,
		"warnings": len(exp.Warnings),
		"id":       entry.ID.String(),
	}).Info("export written")
	fmt.Fprintln(out, path)
	return nil
}
