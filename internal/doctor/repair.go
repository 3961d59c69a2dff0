package doctor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/benjamin-asdf/prefab-checker/internal/atomicfile"
	"github.com/benjamin-asdf/prefab-checker/internal/audit"
	"github.com/benjamin-asdf/prefab-checker/internal/logging"
)

// RepairOptions controls Repair.
type RepairOptions struct {
	// MaxPasses bounds how many times the pipeline is re-run on its own
	// output. Values below 1 mean 1.
	MaxPasses int
	// DryRun computes fixes without writing the file.
	DryRun bool
	Audit  *audit.Logger
	Logger *slog.Logger
}

// Outcome of repairing one file.
type Outcome struct {
	Path    string
	Fixes   []*Fix
	Written bool
	// Remaining is set when the pass limit was reached while the last pass
	// still found something to fix.
	Remaining bool
}

// Repair reads path, applies up to MaxPasses fixes, and writes the result
// atomically unless DryRun is set.
//
// Each pass is a full Analyze of the previous pass's output, so only one
// edit is ever made per analysis. If a later pass fails, the fixes from
// earlier passes are still written and the failure is returned together
// with the Outcome.
func Repair(ctx context.Context, path string, opts RepairOptions) (*Outcome, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	passes := opts.MaxPasses
	if passes < 1 {
		passes = 1
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out := &Outcome{Path: path}
	content := string(original)
	var passErr error

	for pass := 1; pass <= passes; pass++ {
		if err := ctx.Err(); err != nil {
			passErr = err
			break
		}

		res, err := Analyze(path, content)
		if err != nil {
			passErr = err
			break
		}
		if !res.HasFix() {
			break
		}

		log.Debug("fix proposed", "path", path, "pass", pass, "anomaly", res.Fix.Kind.String(), "line", res.Fix.Line)
		out.Fixes = append(out.Fixes, res.Fix)
		content = res.Fix.Content
		if pass == passes {
			out.Remaining = true
		}
	}

	if len(out.Fixes) == 0 || opts.DryRun {
		return out, passErr
	}

	if err := atomicfile.ReplaceIfUnchanged(path, original, []byte(content)); err != nil {
		return out, fmt.Errorf("failed to write %s: %w", path, err)
	}
	out.Written = true
	log.Info("fix written", "path", path, "fixes", len(out.Fixes))

	for _, fix := range out.Fixes {
		if err := opts.Audit.LogFix(path, fix.Kind.String(), fix.Line, fix.AssignedID, fix.Summary); err != nil {
			log.Warn("audit log write failed", "path", path, "error", err)
		}
	}

	return out, passErr
}
