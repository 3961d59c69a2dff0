package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamin-asdf/prefab-checker/internal/doctor"
	"github.com/benjamin-asdf/prefab-checker/internal/fault"
)

var (
	checkStrict     bool
	checkReportPath string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report broken component references without changing files",
	Long: `Check validates each document and reports the single fix that 'fix' would
apply next, or why the document cannot be fixed.

Directories are searched recursively for the configured extensions
(.prefab by default). With no arguments the current directory is checked.

Scene files given by path are always checked. Scenes start with settings
objects that belong to no game object; those are reported as unsupported
(broken-owner-reference), so add ".unity" to extensions only for scenes
without them.

The exit status is non-zero when any document is unsupported, structurally
broken or unreadable. With --strict, fixable documents fail the run too.`,
	Example: `  prefab-checker check Assets/
  prefab-checker check --strict --json Assets/Prefabs/Player.prefab`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	c := getConfig()
	log := getLogger()
	start := time.Now()

	paths, err := collectTargets(args, c)
	if err != nil {
		return handleError(cmd, ErrFileNotFound, err, "")
	}
	log.Debug("checking documents", "count", len(paths), "workers", c.WorkerCount())

	results := processAll(cmd.Context(), paths, c.WorkerCount(), func(ctx context.Context, path string) fileResult {
		r := checkFile(path)
		log.Debug("checked", "path", path, "status", r.Status)
		return r
	})
	summary := summarize(results)

	if checkReportPath != "" {
		if err := writeReport(checkReportPath, runReport{Command: "check", Summary: summary, Files: results}); err != nil {
			return handleError(cmd, ErrFileWriteError, err, "")
		}
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(cmd, map[string]interface{}{
			"files":   results,
			"summary": summary,
		}, legacyWarnings(results), &Meta{Count: len(results), ElapsedMs: time.Since(start).Milliseconds()})
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderResults(results, verbosity > 0))
		fmt.Fprintln(out, summaryLine("Checked", summary))
	}

	if summary.Failed() > 0 || (checkStrict && summary.Fixable > 0) {
		return errIssuesFound
	}
	return nil
}

func checkFile(path string) fileResult {
	r := fileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		r.applyError(fmt.Errorf("failed to read %s: %w", path, err), ErrFileReadError)
		return r
	}

	res, err := doctor.Analyze(path, string(data))
	if err != nil {
		r.applyError(err, ErrInternal)
		return r
	}
	if !res.HasFix() {
		r.Status = StatusOK
		return r
	}

	r.Status = StatusFixable
	r.Line = res.Fix.Line
	r.Fixes = []fixResult{newFixResult(res.Fix)}
	return r
}

// legacyWarnings surfaces the upgrade hint for skipped legacy documents.
func legacyWarnings(results []fileResult) []Warning {
	var warnings []Warning
	for _, r := range results {
		if r.Status == StatusSkipped && r.Reason == string(fault.ReasonLegacyFormat) {
			warnings = append(warnings, Warning{Code: WarnLegacyFormat, Message: legacyHint, Path: r.Path})
		}
	}
	return warnings
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit non-zero when a fix is available")
	checkCmd.Flags().StringVar(&checkReportPath, "report", "", "Write a YAML report of the run to this file")
	rootCmd.AddCommand(checkCmd)
}
