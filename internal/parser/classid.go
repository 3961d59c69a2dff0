package parser

import "strconv"

// ClassID is the numeric class tag written after "!u!" on an anchor line.
type ClassID int64

// Class ids the parser and validator act on.
const (
	ClassGameObject     ClassID = 1
	ClassTransform      ClassID = 4
	ClassRectTransform  ClassID = 224
	ClassPrefabInstance ClassID = 1001
)

// Names for common classes; used only to make messages readable.
var classNames = map[ClassID]string{
	1:    "GameObject",
	4:    "Transform",
	20:   "Camera",
	23:   "MeshRenderer",
	33:   "MeshFilter",
	54:   "Rigidbody",
	64:   "MeshCollider",
	65:   "BoxCollider",
	82:   "AudioSource",
	95:   "Animator",
	114:  "MonoBehaviour",
	135:  "SphereCollider",
	136:  "CapsuleCollider",
	137:  "SkinnedMeshRenderer",
	198:  "ParticleSystem",
	199:  "ParticleSystemRenderer",
	212:  "SpriteRenderer",
	222:  "CanvasRenderer",
	223:  "Canvas",
	224:  "RectTransform",
	225:  "CanvasGroup",
	1001: "PrefabInstance",
}

func (c ClassID) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "Class" + strconv.FormatInt(int64(c), 10)
}

// IsTransform reports whether c is Transform or RectTransform.
func (c ClassID) IsTransform() bool {
	return c == ClassTransform || c == ClassRectTransform
}
