package hierarchy

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Tree holds the current snapshot and swaps it atomically on
// re-parenting. Readers always see either the pre- or post-move path
// set, never a mix.
type Tree struct {
	current atomic.Pointer[Resolver]
}

// NewTree wraps an initial snapshot.
func NewTree(r *Resolver) *Tree {
	t := &Tree{}
	t.current.Store(r)
	return t
}

// Snapshot returns the current resolver. The returned value is
// immutable and safe to use for the duration of a request.
func (t *Tree) Snapshot() *Resolver {
	return t.current.Load()
}

// Reparent moves a group under a new parent and publishes the updated
// snapshot in a single atomic swap. Concurrent moves retry against the
// latest snapshot so neither update is lost.
func (t *Tree) Reparent(id uuid.UUID, newParent *uuid.UUID) error {
	for {
		old := t.current.Load()
		next, err := old.Reparent(id, newParent)
		if err != nil {
			return err
		}
		if t.current.CompareAndSwap(old, next) {
			return nil
		}
	}
}
