package repair

import (
	"strconv"

	"github.com/benjamin-asdf/prefab-checker/internal/fault"
	"github.com/benjamin-asdf/prefab-checker/internal/parser"
)

const (
	// Editor-generated ids are large positive or negative numbers, so small
	// negative ones are free in practice.
	seedFileID  int64 = -1337
	maxAttempts       = 100_000
)

// Allocator hands out identifiers absent from a taken set.
type Allocator struct {
	taken map[string]struct{}
	next  int64
}

// NewAllocator returns an allocator that avoids every id in taken. taken is
// copied and not modified.
func NewAllocator(taken map[string]struct{}) *Allocator {
	own := make(map[string]struct{}, len(taken)+1)
	for id := range taken {
		own[id] = struct{}{}
	}
	return &Allocator{taken: own, next: seedFileID}
}

// Next returns a fresh identifier. It never returns the null file id.
func (a *Allocator) Next() (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := strconv.FormatInt(a.next, 10)
		a.next++
		if candidate == parser.NullFileID {
			continue
		}
		if _, ok := a.taken[candidate]; ok {
			continue
		}
		a.taken[candidate] = struct{}{}
		return candidate, nil
	}
	return "", fault.Structural(-1, fault.ReasonAllocatorExhausted,
		"no free file id after %d attempts", maxAttempts)
}
