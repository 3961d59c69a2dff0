// Package fault defines the three ways processing of a document can stop
// without producing a fix.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies why a document was not repaired.
type Kind int

const (
	// KindSkipped means the document is outside the supported scope.
	// It is not an error and the caller takes no action.
	KindSkipped Kind = iota + 1
	// KindUnsupported means a specific corruption was found but repairing it
	// would require guessing.
	KindUnsupported
	// KindStructural means an invariant that holds for every supported
	// document shape was violated.
	KindStructural
)

func (k Kind) String() string {
	switch k {
	case KindSkipped:
		return "skipped"
	case KindUnsupported:
		return "unsupported"
	case KindStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// Reason is a stable, machine-readable cause.
type Reason string

const (
	ReasonLegacyFormat Reason = "legacy-format"
	ReasonTooShort     Reason = "too-short"

	ReasonBrokenPrefabInstanceID Reason = "broken-prefab-instance-id"
	ReasonBrokenStrippedID       Reason = "broken-stripped-id"
	ReasonBrokenGameObjectID     Reason = "broken-game-object-id"
	ReasonDuplicateID            Reason = "duplicate-identifier"
	ReasonBrokenTransformParent  Reason = "broken-transform-parent"
	ReasonBrokenOwnerRef         Reason = "broken-owner-reference"
	ReasonBrokenTransformID      Reason = "broken-transform-id"
	ReasonUnknownOwner           Reason = "unknown-owner"
	ReasonAmbiguousDangling      Reason = "ambiguous-dangling-references"
	ReasonOrphanGameObject       Reason = "orphan-game-object"

	ReasonMissingComponentBlock Reason = "missing-component-block"
	ReasonNonContiguousBlock    Reason = "non-contiguous-component-block"
	ReasonBadClassID            Reason = "bad-class-id"
	ReasonMissingAnchorMarker   Reason = "missing-anchor-marker"
	ReasonAllocatorExhausted    Reason = "allocator-exhausted"
	ReasonLineOutOfRange        Reason = "line-out-of-range"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrSkipped     = errors.New("document skipped")
	ErrUnsupported = errors.New("unsupported corruption")
	ErrStructural  = errors.New("structural fault")
)

// Error describes why a document was skipped or refused.
type Error struct {
	Kind    Kind
	Reason  Reason
	Line    int // 1-based; 0 when the failure is not tied to a line
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (%s, line %d): %s", e.Kind, e.Reason, e.Line, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Reason, e.Message)
}

// Is lets errors.Is match the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSkipped:
		return e.Kind == KindSkipped
	case ErrUnsupported:
		return e.Kind == KindUnsupported
	case ErrStructural:
		return e.Kind == KindStructural
	}
	return false
}

// Skipped reports a document outside the supported scope.
func Skipped(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Kind: KindSkipped, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Unsupported reports corruption that cannot be fixed without guessing.
// line is 0-based, as stored on parsed records.
func Unsupported(line int, reason Reason, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupported, Reason: reason, Line: line + 1, Message: fmt.Sprintf(format, args...)}
}

// Structural reports a violated parser or validator invariant.
// line is 0-based; pass -1 when there is no line.
func Structural(line int, reason Reason, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStructural, Reason: reason, Line: line + 1, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
