package testutil

import (
	"fmt"
	"strings"
)

const scriptGUID = "5f1e2d3c4b5a69788796a5b4c3d2e1f0"

// Prefab builds serialized prefab documents line by line.
// Identifiers are passed as text so tests can write broken ("") ones.
type Prefab struct {
	lines []string
}

// NewPrefab starts a document with the standard YAML header.
func NewPrefab() *Prefab {
	return &Prefab{lines: []string{
		"%YAML 1.1",
		"%TAG !u! tag:unity3d.com,2011:",
	}}
}

func (p *Prefab) add(lines ...string) *Prefab {
	p.lines = append(p.lines, lines...)
	return p
}

// GameObject adds a game object with the given component block.
func (p *Prefab) GameObject(id, name string, components ...string) *Prefab {
	p.add(
		"--- !u!1 &"+id,
		"GameObject:",
		"  m_ObjectHideFlags: 0",
		"  m_CorrespondingSourceObject: {fileID: 0}",
		"  m_PrefabInstance: {fileID: 0}",
		"  m_PrefabAsset: {fileID: 0}",
		"  serializedVersion: 6",
		"  m_Component:",
	)
	for _, c := range components {
		p.add("  - component: {fileID: " + c + "}")
	}
	return p.add(
		"  m_Layer: 0",
		"  m_Name: "+name,
		"  m_TagString: Untagged",
		"  m_Icon: {fileID: 0}",
		"  m_NavMeshLayer: 0",
		"  m_StaticEditorFlags: 0",
		"  m_IsActive: 1",
	)
}

// GameObjectWithoutBlock adds a game object that has no component lines at
// all, as an old serializer would write it.
func (p *Prefab) GameObjectWithoutBlock(id, name string) *Prefab {
	return p.add(
		"--- !u!1 &"+id,
		"GameObject:",
		"  m_ObjectHideFlags: 0",
		"  serializedVersion: 6",
		"  m_Layer: 0",
		"  m_Name: "+name,
		"  m_IsActive: 1",
	)
}

// Transform adds a Transform owned by owner with the given parent
// ("0" for a root).
func (p *Prefab) Transform(id, owner, parent string) *Prefab {
	return p.transform(4, "Transform", id, owner, parent)
}

// RectTransform adds a RectTransform owned by owner.
func (p *Prefab) RectTransform(id, owner, parent string) *Prefab {
	return p.transform(224, "RectTransform", id, owner, parent)
}

func (p *Prefab) transform(classID int, kind, id, owner, parent string) *Prefab {
	return p.add(
		fmt.Sprintf("--- !u!%d &%s", classID, id),
		kind+":",
		"  m_ObjectHideFlags: 0",
		"  m_CorrespondingSourceObject: {fileID: 0}",
		"  m_PrefabInstance: {fileID: 0}",
		"  m_PrefabAsset: {fileID: 0}",
		"  m_GameObject: {fileID: "+owner+"}",
		"  m_LocalRotation: {x: 0, y: 0, z: 0, w: 1}",
		"  m_LocalPosition: {x: 0, y: 0, z: 0}",
		"  m_LocalScale: {x: 1, y: 1, z: 1}",
		"  m_Children: []",
		"  m_Father: {fileID: "+parent+"}",
		"  m_RootOrder: 0",
	)
}

// MonoBehaviour adds a script component owned by owner.
func (p *Prefab) MonoBehaviour(id, owner string) *Prefab {
	return p.Component(114, id, owner)
}

// Component adds a generic component of classID owned by owner.
func (p *Prefab) Component(classID int, id, owner string) *Prefab {
	return p.add(
		fmt.Sprintf("--- !u!%d &%s", classID, id),
		"MonoBehaviour:",
		"  m_ObjectHideFlags: 0",
		"  m_CorrespondingSourceObject: {fileID: 0}",
		"  m_PrefabInstance: {fileID: 0}",
		"  m_PrefabAsset: {fileID: 0}",
		"  m_GameObject: {fileID: "+owner+"}",
		"  m_Enabled: 1",
		"  m_EditorHideFlags: 0",
		"  m_Script: {fileID: 11500000, guid: "+scriptGUID+", type: 3}",
		"  m_Name: ",
		"  m_EditorClassIdentifier: ",
	)
}

// PrefabInstance adds a nested prefab instance with one m_TransformParent
// line per parent.
func (p *Prefab) PrefabInstance(id string, parents ...string) *Prefab {
	p.add(
		"--- !u!1001 &"+id,
		"PrefabInstance:",
		"  m_ObjectHideFlags: 0",
		"  serializedVersion: 2",
		"  m_Modification:",
	)
	for _, parent := range parents {
		p.add("    m_TransformParent: {fileID: " + parent + "}")
	}
	return p.add(
		"    m_Modifications: []",
		"    m_RemovedComponents: []",
		"  m_SourcePrefab: {fileID: 100100000, guid: "+scriptGUID+", type: 3}",
	)
}

// Stripped adds a stripped placeholder of classID pointing at instance.
func (p *Prefab) Stripped(classID int, id, instance string) *Prefab {
	return p.add(
		fmt.Sprintf("--- !u!%d &%s stripped", classID, id),
		"Transform:",
		"  m_CorrespondingSourceObject: {fileID: 400000, guid: "+scriptGUID+", type: 3}",
		"  m_PrefabInstance: {fileID: "+instance+"}",
		"  m_PrefabAsset: {fileID: 0}",
	)
}

// Line appends a raw line.
func (p *Prefab) Line(line string) *Prefab {
	return p.add(line)
}

// Lines returns a copy of the built lines.
func (p *Prefab) Lines() []string {
	return append([]string(nil), p.lines...)
}

// String renders the document with "\n" endings and a final newline.
func (p *Prefab) String() string {
	return strings.Join(p.lines, "\n") + "\n"
}

// IndexOf returns the 0-based index of the first line equal to line, or -1.
func IndexOf(lines []string, line string) int {
	for i, l := range lines {
		if l == line {
			return i
		}
	}
	return -1
}

// ValidPrefab is a small consistent document: a root object with a
// transform and a script, and a child object with a transform.
func ValidPrefab() *Prefab {
	return NewPrefab().
		GameObject("100", "Player", "200", "300").
		Transform("200", "100", "0").
		MonoBehaviour("300", "100").
		GameObject("400", "Weapon", "500").
		Transform("500", "400", "200")
}
