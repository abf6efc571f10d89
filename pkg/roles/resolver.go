package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lernhub/platform/pkg/hierarchy"
)

// MembershipSource provides the memberships a user holds. Backed by
// the durable directory store in production and by a fixture in tests.
type MembershipSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)
}

// Resolver computes effective roles by combining memberships with the
// group hierarchy.
type Resolver struct {
	tree        *hierarchy.Tree
	memberships MembershipSource
}

// NewResolver creates a role resolver over the given tree and
// membership source.
func NewResolver(tree *hierarchy.Tree, memberships MembershipSource) *Resolver {
	return &Resolver{tree: tree, memberships: memberships}
}

// EffectiveRole returns the highest-ranked role the user holds on the
// target group or any of its ancestors, or RoleNone when no membership
// applies. Memberships on descendants of the target never apply; there
// is no upward inheritance.
func (r *Resolver) EffectiveRole(ctx context.Context, userID, targetGroup uuid.UUID) (Role, error) {
	snap := r.tree.Snapshot()

	if _, err := snap.Get(targetGroup); err != nil {
		return RoleNone, err
	}

	memberships, err := r.memberships.ListByUser(ctx, userID)
	if err != nil {
		return RoleNone, fmt.Errorf("list memberships: %w", err)
	}

	effective := RoleNone
	for _, m := range memberships {
		applies, err := snap.IsAncestor(m.GroupID, targetGroup)
		if err != nil {
			// A membership may reference a group missing from this
			// snapshot (admin deletion racing a request). It simply
			// does not apply; the remaining memberships still count.
			if errors.Is(err, hierarchy.ErrGroupNotFound) {
				continue
			}
			return RoleNone, err
		}
		if applies && m.Role.Outranks(effective) {
			effective = m.Role
		}
	}

	return effective, nil
}

// MaxRole returns the highest-ranked role the user holds across all
// memberships, regardless of group. Used for unscoped platform-wide
// capability checks.
func (r *Resolver) MaxRole(ctx context.Context, userID uuid.UUID) (Role, error) {
	memberships, err := r.memberships.ListByUser(ctx, userID)
	if err != nil {
		return RoleNone, fmt.Errorf("list memberships: %w", err)
	}

	max := RoleNone
	for _, m := range memberships {
		if m.Role.Outranks(max) {
			max = m.Role
		}
	}
	return max, nil
}
