package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamin-asdf/prefab-checker/internal/audit"
	"github.com/benjamin-asdf/prefab-checker/internal/config"
	"github.com/benjamin-asdf/prefab-checker/internal/doctor"
)

var (
	fixDryRun     bool
	fixMaxPasses  int
	fixReportPath string
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Repair broken component references",
	Long: `Fix applies at most one repair per pass to each document and writes the
result atomically. Each pass re-checks the output of the previous one, so
--max-passes bounds how many repairs one run can make to a file.

Documents that cannot be repaired safely are reported and left untouched.
This includes scenes that contain settings objects with no owning game
object.
If a later pass fails, repairs from earlier passes are still written.

Re-open repaired prefabs in the editor and check them before committing.`,
	Example: `  prefab-checker fix Assets/Prefabs/
  prefab-checker fix --dry-run --max-passes 5 Assets/Scenes/Main.unity
  prefab-checker fix --report fix-report.yaml Assets/`,
	RunE: runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	c := getConfig()
	log := getLogger()
	start := time.Now()

	passes := c.MaxPasses
	if fixMaxPasses > 0 {
		passes = fixMaxPasses
	}

	paths, err := collectTargets(args, c)
	if err != nil {
		return handleError(cmd, ErrFileNotFound, err, "")
	}

	opts := doctor.RepairOptions{
		MaxPasses: passes,
		DryRun:    fixDryRun,
		Audit:     audit.New(auditPath(c), c.Audit.Enabled && !fixDryRun),
		Logger:    log,
	}
	log.Debug("fixing documents", "count", len(paths), "passes", passes, "dry_run", fixDryRun)

	results := processAll(cmd.Context(), paths, c.WorkerCount(), func(ctx context.Context, path string) fileResult {
		return fixFile(ctx, path, opts)
	})
	summary := summarize(results)

	if fixReportPath != "" {
		report := runReport{Command: "fix", DryRun: fixDryRun, Summary: summary, Files: results}
		if err := writeReport(fixReportPath, report); err != nil {
			return handleError(cmd, ErrFileWriteError, err, "")
		}
	}

	if isJSONOutput() {
		warnings := legacyWarnings(results)
		for _, r := range results {
			if r.Remaining {
				warnings = append(warnings, Warning{
					Code:    WarnFixesRemaining,
					Message: "pass limit reached with more to fix",
					Path:    r.Path,
				})
			}
		}
		outputSuccessWithWarnings(cmd, map[string]interface{}{
			"files":   results,
			"summary": summary,
			"dry_run": fixDryRun,
		}, warnings, &Meta{Count: len(results), ElapsedMs: time.Since(start).Milliseconds()})
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderResults(results, verbosity > 0))
		verb := "Fixed"
		if fixDryRun {
			verb = "Dry run over"
		}
		fmt.Fprintln(out, summaryLine(verb, summary))
		if summary.FixesMade > 0 {
			fmt.Fprintln(out, "Re-open the repaired documents in the editor to confirm the result.")
		}
	}

	if summary.Failed() > 0 {
		return errIssuesFound
	}
	return nil
}

func fixFile(ctx context.Context, path string, opts doctor.RepairOptions) fileResult {
	r := fileResult{Path: path}

	out, err := doctor.Repair(ctx, path, opts)
	if out != nil {
		r.Written = out.Written
		r.Remaining = out.Remaining
		for _, f := range out.Fixes {
			r.Fixes = append(r.Fixes, newFixResult(f))
		}
	}

	switch {
	case err != nil && out == nil:
		r.applyError(err, ErrFileReadError)
	case err != nil:
		r.applyError(err, ErrFileWriteError)
	case len(r.Fixes) == 0:
		r.Status = StatusOK
	case r.Written:
		r.Status = StatusFixed
	default:
		r.Status = StatusFixable
	}
	return r
}

// auditPath resolves the audit log location. Relative paths are taken
// from the working directory.
func auditPath(c *config.Config) string {
	if c.Audit.Path == "" {
		return audit.DefaultFile
	}
	return filepath.Clean(c.Audit.Path)
}

func init() {
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Show what would be fixed without writing")
	fixCmd.Flags().IntVar(&fixMaxPasses, "max-passes", 0, "Fixes applied per file (0 = from config)")
	fixCmd.Flags().StringVar(&fixReportPath, "report", "", "Write a YAML report of the run to this file")
	rootCmd.AddCommand(fixCmd)
}
