// Package repair applies one validator anomaly to a document's lines.
//
// Only one edit is made per call. Edits shift line numbers, and the records
// the anomaly points at are only valid for the original lines, so callers
// that want every issue fixed parse and validate the result again.
package repair

import (
	"fmt"
	"strings"

	"github.com/benjamin-asdf/prefab-checker/internal/check"
	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/parser"
)

// Edit is the result of a repair.
type Edit struct {
	Lines []string
	// Splice locates the replaced component block, if any. Anchor edits
	// change a line in place and do not appear in it.
	Splice     parser.Splice
	AssignedID string // id written into the component's anchor, if any
	Summary    string
}

// Apply returns a copy of lines with the anomaly repaired. report must come
// from the same validation run; it is read, not modified.
func Apply(lines []string, a *check.Anomaly, report *check.Report) (*Edit, error) {
	out := append([]string(nil), lines...)

	switch a.Kind {
	case check.AssignFreshID:
		id, err := NewAllocator(report.IDs).Next()
		if err != nil {
			return nil, err
		}
		// The anchor edit does not move lines, so the block positions
		// recorded on the owner are still valid afterwards.
		if err := insertFileID(out, a.Component.ID.Line, id); err != nil {
			return nil, err
		}
		refs := append(a.Owner.CompRefIDs(), id)
		out, sp, err := rewriteBlock(out, a.Owner, refs)
		if err != nil {
			return nil, err
		}
		return &Edit{
			Lines:      out,
			Splice:     sp,
			AssignedID: id,
			Summary: fmt.Sprintf("assigned new id %s to %s on line %d and added it to %s",
				id, a.Component.ClassID, a.Component.ID.Line+1, a.Owner.Label()),
		}, nil

	case check.RepairPairing:
		if err := insertFileID(out, a.Component.ID.Line, a.DanglingID); err != nil {
			return nil, err
		}
		return &Edit{
			Lines:      out,
			AssignedID: a.DanglingID,
			Summary: fmt.Sprintf("restored id %s on %s on line %d from %s",
				a.DanglingID, a.Component.ClassID, a.Component.ID.Line+1, a.Owner.Label()),
		}, nil

	case check.RewriteCompRefBlock:
		out, sp, err := rewriteBlock(out, a.Owner, a.Refs)
		if err != nil {
			return nil, err
		}
		return &Edit{
			Lines:  out,
			Splice: sp,
			Summary: fmt.Sprintf("rewrote component list of %s to [%s]",
				a.Owner.Label(), strings.Join(a.Refs, ", ")),
		}, nil
	}

	return nil, fmt.Errorf("unknown anomaly kind %d", a.Kind)
}

// insertFileID writes id right after the anchor marker on lines[index].
func insertFileID(lines []string, index int, id string) error {
	if index < 0 || index >= len(lines) {
		return fault.Structural(-1, fault.ReasonLineOutOfRange, "line %d is outside the document", index+1)
	}
	line := lines[index]
	pos := strings.IndexByte(line, parser.AnchorMarker)
	if pos < 0 {
		return fault.Structural(index, fault.ReasonMissingAnchorMarker, "expected %q on anchor line", parser.AnchorMarker)
	}
	lines[index] = line[:pos+1] + id + line[pos+1:]
	return nil
}

// rewriteBlock replaces owner's component block with one line per ref.
func rewriteBlock(lines []string, owner *parser.Record, refs []string) ([]string, parser.Splice, error) {
	g := owner.GameObject
	if g == nil || g.CompRefs == nil {
		return nil, parser.Splice{}, fault.Structural(owner.ID.Line, fault.ReasonMissingComponentBlock,
			"game object has no component list to rewrite")
	}
	// The block is removed as a range, so its lines must be adjacent.
	for i, ref := range g.CompRefs {
		if ref.Line != g.BlockStart+i {
			return nil, parser.Splice{}, fault.Structural(ref.Line, fault.ReasonNonContiguousBlock,
				"component list of %s is interrupted by other lines", owner.Label())
		}
	}
	end := g.BlockStart + g.BlockLen
	if end > len(lines) {
		return nil, parser.Splice{}, fault.Structural(-1, fault.ReasonLineOutOfRange, "component list ends past the document")
	}

	block := make([]string, 0, len(refs))
	for _, id := range refs {
		block = append(block, parser.FormatComponentRef(id))
	}

	out := make([]string, 0, len(lines)-g.BlockLen+len(block))
	out = append(out, lines[:g.BlockStart]...)
	out = append(out, block...)
	out = append(out, lines[end:]...)
	return out, parser.Splice{Start: g.BlockStart, Removed: g.BlockLen, Inserted: len(block)}, nil
}
