// Package doctor is the boundary between file handling and the
// parse, validate and repair pipeline.
package doctor

import (
	"github.com/benjamin-asdf/prefab-checker/internal/check"
	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/parser"
	"github.com/benjamin-asdf/prefab-checker/internal/repair"
)

// Error is returned for skipped, unsupported and structurally broken
// documents.
type Error = fault.Error

// Fix is a proposed single edit.
type Fix struct {
	Kind        check.AnomalyKind
	Line        int // 1-based line of the anomaly in the input
	Description string
	Summary     string
	AssignedID  string
	Content     string // the whole repaired document
}

// Result of analysing one document. Fix is nil when no issue was found.
type Result struct {
	Path string
	Fix  *Fix
}

// HasFix reports whether a fix was proposed.
func (r *Result) HasFix() bool {
	return r != nil && r.Fix != nil
}

// Analyze checks one document and proposes at most one fix.
//
// It returns a Result with a nil Fix when the document is consistent, and a
// *Error (see fault.Kind) when the document is skipped or cannot be fixed
// safely. content is never modified; writing the fix is up to the caller.
func Analyze(path, content string) (*Result, error) {
	doc, err := parser.ParseDocument(content, path)
	if err != nil {
		return nil, err
	}

	report, anomaly, err := check.Validate(doc.Records)
	if err != nil {
		return nil, err
	}
	if anomaly == nil {
		return &Result{Path: path}, nil
	}

	edit, err := repair.Apply(doc.Text.Lines, anomaly, report)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path: path,
		Fix: &Fix{
			Kind:        anomaly.Kind,
			Line:        anomaly.Line() + 1,
			Description: anomaly.Describe(),
			Summary:     edit.Summary,
			AssignedID:  edit.AssignedID,
			Content:     doc.Text.Join(edit.Lines, edit.Splice),
		},
	}, nil
}
