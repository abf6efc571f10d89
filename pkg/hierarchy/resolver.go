package hierarchy

import (
	"fmt"

	"github.com/google/uuid"
)

// Group is a node in the organizational tree.
type Group struct {
	ID       uuid.UUID
	Name     string
	ParentID *uuid.UUID

	// Path is the materialized path: every ancestor root-first,
	// ending with the group's own ID. Derived by the Resolver from
	// parent references, never supplied by callers.
	Path []uuid.UUID
}

// Resolver is an immutable snapshot of the group tree with
// materialized paths precomputed for every group.
type Resolver struct {
	groups map[uuid.UUID]Group
}

// NewResolver builds a snapshot from the given groups. Paths are
// derived from parent references. Fails if a parent reference points
// outside the snapshot or the parent graph contains a cycle.
func NewResolver(groups []Group) (*Resolver, error) {
	byID := make(map[uuid.UUID]Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	resolved := make(map[uuid.UUID]Group, len(groups))
	for _, g := range groups {
		path, err := derivePath(g.ID, byID, make(map[uuid.UUID]bool))
		if err != nil {
			return nil, err
		}
		g.Path = path
		resolved[g.ID] = g
	}

	return &Resolver{groups: resolved}, nil
}

// derivePath walks parent references up to the root, returning the
// materialized path root-first including id itself.
func derivePath(id uuid.UUID, byID map[uuid.UUID]Group, visiting map[uuid.UUID]bool) ([]uuid.UUID, error) {
	if visiting[id] {
		return nil, fmt.Errorf("%w: group %s", ErrCycleDetected, id)
	}
	visiting[id] = true

	g, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", ErrUnknownParent, id)
	}

	if g.ParentID == nil {
		return []uuid.UUID{id}, nil
	}

	parentPath, err := derivePath(*g.ParentID, byID, visiting)
	if err != nil {
		return nil, err
	}

	path := make([]uuid.UUID, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	return append(path, id), nil
}

// Get returns the group for the given ID.
func (r *Resolver) Get(id uuid.UUID) (Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return g, nil
}

// AncestorsOf returns the group's ancestors root-first, including the
// group itself as the last element.
func (r *Resolver) AncestorsOf(id uuid.UUID) ([]Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}

	ancestors := make([]Group, 0, len(g.Path))
	for _, ancestorID := range g.Path {
		ancestors = append(ancestors, r.groups[ancestorID])
	}
	return ancestors, nil
}

// IsAncestor reports whether a is an ancestor of b. The relation is
// reflexive: every group is its own ancestor.
func (r *Resolver) IsAncestor(a, b uuid.UUID) (bool, error) {
	ga, ok := r.groups[a]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, a)
	}
	gb, ok := r.groups[b]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, b)
	}

	// Prefix test on materialized paths.
	if len(ga.Path) > len(gb.Path) {
		return false, nil
	}
	for i, id := range ga.Path {
		if gb.Path[i] != id {
			return false, nil
		}
	}
	return true, nil
}

// Reparent returns a new snapshot where the group has been moved under
// newParent (or to the root when newParent is nil), with the paths of
// the whole subtree recomputed. The receiver is left untouched, so the
// path set a concurrent reader holds stays internally consistent.
func (r *Resolver) Reparent(id uuid.UUID, newParent *uuid.UUID) (*Resolver, error) {
	if _, ok := r.groups[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}

	if newParent != nil {
		if _, ok := r.groups[*newParent]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, *newParent)
		}
		// Moving under self or a descendant would create a cycle.
		under, err := r.IsAncestor(id, *newParent)
		if err != nil {
			return nil, err
		}
		if under {
			return nil, fmt.Errorf("%w: %s under %s", ErrReparentIntoSubtree, id, *newParent)
		}
	}

	groups := make([]Group, 0, len(r.groups))
	for _, existing := range r.groups {
		if existing.ID == id {
			existing.ParentID = newParent
		}
		existing.Path = nil
		groups = append(groups, existing)
	}

	// NewResolver re-derives every path, which covers the moved
	// subtree in one batch.
	return NewResolver(groups)
}

// Len returns the number of groups in the snapshot.
func (r *Resolver) Len() int {
	return len(r.groups)
}
