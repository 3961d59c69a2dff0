package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/benjamin-asdf/prefab-checker/internal/atomicfile"
	"github.com/benjamin-asdf/prefab-checker/internal/doctor"
	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/ui"
)

// Per-document status values, stable in JSON and report output.
const (
	StatusOK          = "ok"
	StatusFixable     = "fixable"
	StatusFixed       = "fixed"
	StatusSkipped     = "skipped"
	StatusUnsupported = "unsupported"
	StatusStructural  = "structural"
	StatusError       = "error"
)

// fileResult is the outcome for one document.
type fileResult struct {
	Path    string      `json:"path" yaml:"path"`
	Status  string      `json:"status" yaml:"status"`
	Code    string      `json:"code,omitempty" yaml:"code,omitempty"`
	Reason  string      `json:"reason,omitempty" yaml:"reason,omitempty"`
	Line    int         `json:"line,omitempty" yaml:"line,omitempty"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Fixes   []fixResult `json:"fixes,omitempty" yaml:"fixes,omitempty"`
	Written bool        `json:"written,omitempty" yaml:"written,omitempty"`
	// Remaining is set when fix stopped at its pass limit with more to do.
	Remaining bool `json:"remaining,omitempty" yaml:"remaining,omitempty"`
}

type fixResult struct {
	Anomaly     string `json:"anomaly" yaml:"anomaly"`
	Line        int    `json:"line" yaml:"line"`
	Description string `json:"description" yaml:"description"`
	Summary     string `json:"summary" yaml:"summary"`
	AssignedID  string `json:"assigned_id,omitempty" yaml:"assigned_id,omitempty"`
}

func newFixResult(f *doctor.Fix) fixResult {
	return fixResult{
		Anomaly:     f.Kind.String(),
		Line:        f.Line,
		Description: f.Description,
		Summary:     f.Summary,
		AssignedID:  f.AssignedID,
	}
}

// failed reports whether the result should make the run exit non-zero.
func (r fileResult) failed() bool {
	switch r.Status {
	case StatusUnsupported, StatusStructural, StatusError:
		return true
	}
	return false
}

// applyError fills status, code and message from err. Errors that are not
// document faults are reported with fallbackCode.
func (r *fileResult) applyError(err error, fallbackCode string) {
	var fe *doctor.Error
	if errors.As(err, &fe) {
		r.Reason = string(fe.Reason)
		r.Line = fe.Line
		r.Message = fe.Message
		switch fe.Kind {
		case fault.KindSkipped:
			r.Status, r.Code = StatusSkipped, ErrSkipped
		case fault.KindUnsupported:
			r.Status, r.Code = StatusUnsupported, ErrUnsupported
		default:
			r.Status, r.Code = StatusStructural, ErrStructural
		}
		return
	}

	r.Status = StatusError
	r.Message = err.Error()
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.Code = ErrCanceled
	case errors.Is(err, atomicfile.ErrChanged):
		r.Code = ErrFileChanged
	default:
		r.Code = fallbackCode
	}
}

// runSummary aggregates results over all documents of a run.
type runSummary struct {
	Documents   int `json:"documents" yaml:"documents"`
	Consistent  int `json:"consistent" yaml:"consistent"`
	Fixable     int `json:"fixable" yaml:"fixable"`
	Fixed       int `json:"fixed" yaml:"fixed"`
	FixesMade   int `json:"fixes_made" yaml:"fixes_made"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Unsupported int `json:"unsupported" yaml:"unsupported"`
	Structural  int `json:"structural" yaml:"structural"`
	Errors      int `json:"errors" yaml:"errors"`
}

func summarize(results []fileResult) runSummary {
	s := runSummary{Documents: len(results)}
	for _, r := range results {
		if r.Written {
			s.FixesMade += len(r.Fixes)
		}
		switch r.Status {
		case StatusOK:
			s.Consistent++
		case StatusFixable:
			s.Fixable++
		case StatusFixed:
			s.Fixed++
		case StatusSkipped:
			s.Skipped++
		case StatusUnsupported:
			s.Unsupported++
		case StatusStructural:
			s.Structural++
		default:
			s.Errors++
		}
	}
	return s
}

// Failed counts documents that make the run exit non-zero.
func (s runSummary) Failed() int {
	return s.Unsupported + s.Structural + s.Errors
}

func (s runSummary) tally() string {
	return ui.Tally(
		ui.TallyItem{N: s.Fixed, Name: "fixed"},
		ui.TallyItem{N: s.Fixable, Name: "fixable"},
		ui.TallyItem{N: s.Skipped, Name: "skipped"},
		ui.TallyItem{N: s.Unsupported, Name: "unsupported"},
		ui.TallyItem{N: s.Structural, Name: "structural"},
		ui.TallyItem{N: s.Errors, Name: ui.Plural(s.Errors, "error", "errors")},
	)
}

// legacyHint is shown for documents in the pre-5.x component list format.
const legacyHint = "Toggle any GameObject in the editor and save to upgrade the file format."

// renderResults formats results as aligned rows. Consistent documents are
// listed only when verbose is set.
func renderResults(results []fileResult, verbose bool) string {
	table := ui.NewTable(3)
	var hints []string

	for _, r := range results {
		switch r.Status {
		case StatusOK:
			if verbose {
				table.AddRow(ui.Success(ui.FilePath(r.Path)), ui.Hint("ok"), "")
			}
		case StatusFixable:
			for _, f := range r.Fixes {
				table.AddRow(ui.Warning(ui.Location(r.Path, f.Line)), ui.Kind(f.Anomaly), f.Description)
			}
		case StatusFixed:
			for _, f := range r.Fixes {
				table.AddRow(ui.Success(ui.Location(r.Path, f.Line)), ui.Kind(f.Anomaly), "fixed: "+f.Summary)
			}
			if r.Remaining {
				hints = append(hints, fmt.Sprintf("%s has more to fix; run again or raise --max-passes", r.Path))
			}
		case StatusSkipped:
			table.AddRow(ui.Skipped(r.Path), ui.Hint(r.Reason), ui.Hint(r.Message))
			if r.Reason == string(fault.ReasonLegacyFormat) {
				hints = append(hints, fmt.Sprintf("%s: %s", r.Path, legacyHint))
			}
		default:
			// Fixes written before a later pass failed are still listed.
			if r.Written {
				for _, f := range r.Fixes {
					table.AddRow(ui.Success(ui.Location(r.Path, f.Line)), ui.Kind(f.Anomaly), "fixed: "+f.Summary)
				}
			}
			kind := r.Reason
			if kind == "" {
				kind = strings.ToLower(r.Code)
			}
			table.AddRow(ui.Error(ui.Location(r.Path, r.Line)), ui.Kind(kind), r.Message)
		}
	}

	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(table.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		sb.WriteString(display.Fit(line, 0))
		sb.WriteString("\n")
	}
	for _, h := range hints {
		sb.WriteString(ui.Hint("hint: " + h))
		sb.WriteString("\n")
	}
	return sb.String()
}

// summaryLine is the closing line of text output.
func summaryLine(verb string, s runSummary) string {
	noun := ui.Plural(s.Documents, "document", "documents")
	if s.Documents == 0 {
		return ui.Warning("No documents found")
	}
	if s.Documents == s.Consistent {
		return ui.Successf("%s %d %s, all consistent", verb, s.Documents, noun)
	}
	line := fmt.Sprintf("%s %d %s %s", verb, s.Documents, noun, s.tally())
	if s.Failed() > 0 {
		return ui.Error(line)
	}
	return ui.Warning(line)
}
