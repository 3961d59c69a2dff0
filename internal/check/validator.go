// Package check validates the reference graph between game objects and
// their components.
package check

import (
	"fmt"
	"strings"

	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/parser"
)

// AnomalyKind identifies which repair an anomaly calls for.
type AnomalyKind int

const (
	// AssignFreshID: a component lost its identifier and its game object has
	// no dangling reference that could be it.
	AssignFreshID AnomalyKind = iota + 1
	// RepairPairing: a component lost its identifier and its game object
	// has exactly one dangling reference, which must be the lost one.
	RepairPairing
	// RewriteCompRefBlock: a game object's component block disagrees with
	// the components that name it as their owner.
	RewriteCompRefBlock
)

func (k AnomalyKind) String() string {
	switch k {
	case AssignFreshID:
		return "assign-fresh-id"
	case RepairPairing:
		return "repair-pairing"
	case RewriteCompRefBlock:
		return "rewrite-component-block"
	default:
		return "unknown"
	}
}

// Anomaly is one repairable inconsistency.
type Anomaly struct {
	Kind       AnomalyKind
	Component  *parser.Record // AssignFreshID, RepairPairing
	Owner      *parser.Record
	DanglingID string   // RepairPairing
	Refs       []string // RewriteCompRefBlock, in owner order
}

// Line returns the 0-based line the anomaly is anchored at.
func (a *Anomaly) Line() int {
	if a.Component != nil {
		return a.Component.ID.Line
	}
	return a.Owner.ID.Line
}

// Describe returns a one-line human-readable summary.
func (a *Anomaly) Describe() string {
	switch a.Kind {
	case AssignFreshID:
		return fmt.Sprintf("%s on line %d has no id; %s has no dangling reference for it",
			a.Component.ClassID, a.Component.ID.Line+1, a.Owner.Label())
	case RepairPairing:
		return fmt.Sprintf("%s on line %d has no id; %s references missing id %s",
			a.Component.ClassID, a.Component.ID.Line+1, a.Owner.Label(), a.DanglingID)
	case RewriteCompRefBlock:
		return fmt.Sprintf("component list of %s is [%s], components claiming it are [%s]",
			a.Owner.Label(), strings.Join(a.Owner.CompRefIDs(), ", "), strings.Join(a.Refs, ", "))
	default:
		return a.Kind.String()
	}
}

// OwnerState is what validation found about one game object's block.
type OwnerState struct {
	HasBrokenRefs bool     // some entry has an empty id
	Dangling      []string // ids not declared anywhere, first-seen order
}

// Report is the validator's view of the document. It is returned alongside
// an anomaly so the repair step can allocate fresh ids.
type Report struct {
	// IDs holds every non-empty identifier declared by an anchor line.
	IDs map[string]struct{}
	// Owners maps a game object id to the ids of the components naming it
	// as owner, in document order.
	Owners map[string][]string
	// GameObjects is keyed by game object id.
	GameObjects map[string]*OwnerState
}

// Has reports whether id is declared in the document.
func (r *Report) Has(id string) bool {
	_, ok := r.IDs[id]
	return ok
}

// Validator runs the checks over one document's records.
type Validator struct {
	records     []*parser.Record
	gameObjects []*parser.Record
	goLookup    map[string]*parser.Record
	components  []*parser.Record
	instances   []*parser.Record
	report      *Report
}

// NewValidator creates a validator for records.
func NewValidator(records []*parser.Record) *Validator {
	v := &Validator{
		records:  records,
		goLookup: make(map[string]*parser.Record),
		report: &Report{
			IDs:         make(map[string]struct{}),
			Owners:      make(map[string][]string),
			GameObjects: make(map[string]*OwnerState),
		},
	}
	for _, r := range records {
		switch r.Kind {
		case parser.KindGameObject:
			v.gameObjects = append(v.gameObjects, r)
		case parser.KindComponent:
			v.components = append(v.components, r)
		case parser.KindPrefabInstance:
			v.instances = append(v.instances, r)
		}
	}
	return v
}

// Validate is shorthand for NewValidator(records).Validate().
func Validate(records []*parser.Record) (*Report, *Anomaly, error) {
	return NewValidator(records).Validate()
}

// Validate runs every check in priority order and stops at the first
// finding. A nil anomaly with a nil error means the document is consistent.
// Refusals are returned as *fault.Error.
func (v *Validator) Validate() (*Report, *Anomaly, error) {
	steps := []func() error{
		v.checkPlaceholderIDs,
		v.checkGameObjectIDs,
		v.checkComponentBlocks,
		v.collectIDs,
		v.classifyCompRefs,
		v.checkTransformParents,
		v.checkOwnerRefs,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, nil, err
		}
	}

	anomaly, err := v.findMissingComponentID()
	if err != nil || anomaly != nil {
		return v.report, anomaly, err
	}

	anomaly, err = v.findBlockMismatch()
	if err != nil {
		return nil, nil, err
	}
	return v.report, anomaly, nil
}

func (v *Validator) checkPlaceholderIDs() error {
	for _, r := range v.records {
		if !r.ID.Empty() {
			continue
		}
		switch r.Kind {
		case parser.KindPrefabInstance:
			// A fix would have to find every stripped object pointing at it.
			return fault.Unsupported(r.ID.Line, fault.ReasonBrokenPrefabInstanceID,
				"the id of a prefab instance is broken")
		case parser.KindStripped:
			return fault.Unsupported(r.ID.Line, fault.ReasonBrokenStrippedID,
				"the id of a stripped %s is broken", r.ClassID)
		}
	}
	return nil
}

func (v *Validator) checkGameObjectIDs() error {
	for _, g := range v.gameObjects {
		if g.ID.Empty() {
			return fault.Unsupported(g.ID.Line, fault.ReasonBrokenGameObjectID,
				"game object '%s' has a broken id", g.GameObject.Name)
		}
	}
	return nil
}

func (v *Validator) checkComponentBlocks() error {
	for _, g := range v.gameObjects {
		// Every game object lists at least its own transform.
		if g.GameObject.CompRefs == nil {
			return fault.Structural(g.ID.Line, fault.ReasonMissingComponentBlock,
				"game object '%s' has no component list; legacy prefab? enable and disable a game object and save to upgrade it",
				g.GameObject.Name)
		}
	}
	return nil
}

func (v *Validator) collectIDs() error {
	for _, r := range v.records {
		if r.ID.Empty() {
			continue
		}
		if _, dup := v.report.IDs[r.ID.ID]; dup {
			return fault.Unsupported(r.ID.Line, fault.ReasonDuplicateID,
				"id %s is declared more than once", r.ID.ID)
		}
		v.report.IDs[r.ID.ID] = struct{}{}
		if r.Kind == parser.KindGameObject {
			v.goLookup[r.ID.ID] = r
		}
	}
	return nil
}

func (v *Validator) classifyCompRefs() error {
	for _, g := range v.gameObjects {
		state := &OwnerState{}
		seen := make(map[string]struct{})
		for _, ref := range g.GameObject.CompRefs {
			if ref.Empty() {
				state.HasBrokenRefs = true
				continue
			}
			if v.report.Has(ref.ID) {
				continue
			}
			if _, ok := seen[ref.ID]; !ok {
				seen[ref.ID] = struct{}{}
				state.Dangling = append(state.Dangling, ref.ID)
			}
		}
		v.report.GameObjects[g.ID.ID] = state
	}
	return nil
}

func (v *Validator) checkTransformParents() error {
	for _, pi := range v.instances {
		// Only one parent is expected, but every one seen is checked.
		for _, ref := range pi.PrefabInstance.TransformParents {
			if ref.ID == parser.NullFileID {
				continue
			}
			if ref.Empty() || !v.report.Has(ref.ID) {
				return fault.Unsupported(ref.Line, fault.ReasonBrokenTransformParent,
					"broken prefab transform parent; find the transform it belongs under and put its file id")
			}
		}
	}
	return nil
}

// checkOwnerRefs runs over all components before any fix is proposed, so a
// broken owner anywhere blocks every edit. It also builds the reverse map.
func (v *Validator) checkOwnerRefs() error {
	for _, c := range v.components {
		owner := c.Component.Owner
		if owner.Empty() || !v.report.Has(owner.ID) {
			// Filling in the enclosing game object would be easy, except for
			// override components, where the right stripped object is unknown.
			return fault.Unsupported(c.ID.Line, fault.ReasonBrokenOwnerRef,
				"%s has a broken game object reference", c.ClassID)
		}
		v.report.Owners[owner.ID] = append(v.report.Owners[owner.ID], c.ID.ID)
	}
	return nil
}

func (v *Validator) findMissingComponentID() (*Anomaly, error) {
	for _, c := range v.components {
		if !c.ID.Empty() {
			continue
		}
		if c.ClassID.IsTransform() {
			return nil, fault.Unsupported(c.ID.Line, fault.ReasonBrokenTransformID,
				"%s has a broken id; transforms are not repaired", c.ClassID)
		}

		owner, ok := v.goLookup[c.Component.Owner.ID]
		if !ok {
			return nil, fault.Unsupported(c.ID.Line, fault.ReasonUnknownOwner,
				"%s has a broken id and no game object owns it", c.ClassID)
		}

		dangling := v.report.GameObjects[owner.ID.ID].Dangling
		switch len(dangling) {
		case 0:
			return &Anomaly{Kind: AssignFreshID, Component: c, Owner: owner}, nil
		case 1:
			return &Anomaly{Kind: RepairPairing, Component: c, Owner: owner, DanglingID: dangling[0]}, nil
		default:
			return nil, fault.Unsupported(c.ID.Line, fault.ReasonAmbiguousDangling,
				"%s has a broken id but %s has %d dangling component references (%s)",
				c.ClassID, owner.Label(), len(dangling), strings.Join(dangling, ", "))
		}
	}
	return nil, nil
}

func (v *Validator) findBlockMismatch() (*Anomaly, error) {
	for _, g := range v.gameObjects {
		claimed, ok := v.report.Owners[g.ID.ID]
		if !ok {
			return nil, fault.Unsupported(g.ID.Line, fault.ReasonOrphanGameObject,
				"orphan game object: no component references '%s'", g.GameObject.Name)
		}
		state := v.report.GameObjects[g.ID.ID]
		if len(claimed) != len(g.GameObject.CompRefs) || state.HasBrokenRefs {
			refs := append([]string(nil), claimed...)
			return &Anomaly{Kind: RewriteCompRefBlock, Owner: g, Refs: refs}, nil
		}
	}
	return nil, nil
}
