// Package parser turns a serialized scene or prefab into typed object records.
package parser

import (
	"strconv"

	"github.com/benjamin-asdf/prefab-checker/internal/fault"
)

// MinLines is the smallest line count a real prefab can have. A game object
// plus its transform already takes more than this; shorter files are
// treated as truncated.
const MinLines = 15

// Kind tags the variant of a Record.
type Kind int

const (
	KindComponent Kind = iota
	KindGameObject
	KindPrefabInstance
	KindStripped
)

func (k Kind) String() string {
	switch k {
	case KindGameObject:
		return "game object"
	case KindPrefabInstance:
		return "prefab instance"
	case KindStripped:
		return "stripped object"
	default:
		return "component"
	}
}

// Ref is a fileID value and the 0-based line it was read from.
// An empty ID means the reference body was missing.
type Ref struct {
	Line int
	ID   string
}

// Empty reports whether the identifier text is missing.
func (r Ref) Empty() bool {
	return r.ID == ""
}

// Record is one object introduced by an anchor line. Exactly one of the
// variant payloads is set for game objects, components and prefab
// instances; stripped objects carry none.
type Record struct {
	Kind    Kind
	ClassID ClassID
	ID      Ref // identifier on the anchor line

	GameObject     *GameObject
	Component      *Component
	PrefabInstance *PrefabInstance
}

// GameObject is the payload of a KindGameObject record.
type GameObject struct {
	Name string
	// CompRefs is nil when no component line was seen, which is different
	// from an empty block.
	CompRefs   []Ref
	BlockStart int
	BlockLen   int
}

// Component is the payload of a KindComponent record.
type Component struct {
	Owner Ref // m_GameObject; empty when missing or broken
}

// PrefabInstance is the payload of a KindPrefabInstance record.
type PrefabInstance struct {
	TransformParents []Ref
}

// Label returns a short human-readable description, e.g.
// "MonoBehaviour &300" or "GameObject 'Player' &100".
func (r *Record) Label() string {
	label := r.ClassID.String()
	if r.Kind == KindGameObject && r.GameObject.Name != "" {
		label += " '" + r.GameObject.Name + "'"
	}
	return label + " &" + r.ID.ID
}

// CompRefIDs returns the identifiers of a game object's component block in
// order. It returns nil for other kinds.
func (r *Record) CompRefIDs() []string {
	if r.GameObject == nil {
		return nil
	}
	ids := make([]string, 0, len(r.GameObject.CompRefs))
	for _, ref := range r.GameObject.CompRefs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// ParsedDocument is a document ready for validation.
type ParsedDocument struct {
	FilePath string
	Text     *Text
	Records  []*Record
}

// ParseDocument checks content is in scope and parses it.
//
// Legacy documents and documents shorter than MinLines are reported as
// fault.KindSkipped.
func ParseDocument(content string, filePath string) (*ParsedDocument, error) {
	if IsLegacy(content) {
		return nil, fault.Skipped(fault.ReasonLegacyFormat,
			"legacy component list syntax; enable and disable a game object and save to upgrade it")
	}

	text := SplitLines(content)
	if len(text.Lines) < MinLines {
		return nil, fault.Skipped(fault.ReasonTooShort,
			"only %d lines, expected at least %d", len(text.Lines), MinLines)
	}

	records, err := Parse(text.Lines)
	if err != nil {
		return nil, err
	}

	return &ParsedDocument{
		FilePath: filePath,
		Text:     text,
		Records:  records,
	}, nil
}

// Parse splits lines into records. Each anchor line starts a record and
// closes the previous one; other lines are only inspected for the fields
// of the current record's kind. Lines before the first anchor are ignored.
func Parse(lines []string) ([]*Record, error) {
	var records []*Record
	var cur *Record

	for i, line := range lines {
		if m := anchorPattern.FindStringSubmatch(line); m != nil {
			if cur != nil {
				records = append(records, cur)
			}
			classID, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return nil, fault.Structural(i, fault.ReasonBadClassID, "class id %q out of range", m[1])
			}
			cur = newRecord(ClassID(classID), Ref{Line: i, ID: m[2]}, strippedAnchorPattern.MatchString(line))
			continue
		}
		if cur == nil {
			continue
		}

		switch cur.Kind {
		case KindGameObject:
			g := cur.GameObject
			if m := componentRefPattern.FindStringSubmatch(line); m != nil {
				if g.CompRefs == nil {
					g.BlockStart = i
					g.CompRefs = []Ref{}
				}
				g.CompRefs = append(g.CompRefs, Ref{Line: i, ID: m[1]})
				g.BlockLen++
			} else if m := namePattern.FindStringSubmatch(line); m != nil {
				g.Name = m[1]
			}
		case KindComponent:
			if m := ownerRefPattern.FindStringSubmatch(line); m != nil {
				cur.Component.Owner = Ref{Line: i, ID: m[1]}
			}
		case KindPrefabInstance:
			if m := transformParentPattern.FindStringSubmatch(line); m != nil {
				p := cur.PrefabInstance
				p.TransformParents = append(p.TransformParents, Ref{Line: i, ID: m[1]})
			}
		}
	}

	if cur != nil {
		records = append(records, cur)
	}
	return records, nil
}

func newRecord(classID ClassID, id Ref, stripped bool) *Record {
	r := &Record{ClassID: classID, ID: id}
	switch {
	case stripped:
		r.Kind = KindStripped
	case classID == ClassGameObject:
		r.Kind = KindGameObject
		r.GameObject = &GameObject{}
	case classID == ClassPrefabInstance:
		r.Kind = KindPrefabInstance
		r.PrefabInstance = &PrefabInstance{}
	default:
		r.Kind = KindComponent
		r.Component = &Component{Owner: Ref{Line: id.Line}}
	}
	return r
}
