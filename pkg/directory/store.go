package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/lernhub/platform/pkg/hierarchy"
	"github.com/lernhub/platform/pkg/roles"
)

// UserStore is the contract federated login and administration need
// for accounts and identity links.
type UserStore interface {
	// CreateUser inserts a new account. Fails with ErrEmailTaken on a
	// duplicate normalized email.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByID loads an account, failing with ErrUserNotFound.
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetUserByEmail loads an account by normalized email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByIdentity resolves an external identity to the linked
	// account, failing with ErrUserNotFound when unlinked.
	GetUserByIdentity(ctx context.Context, provider, providerUserID string) (*User, error)

	// LinkIdentity attaches an external identity to an account. Fails
	// with ErrIdentityLinked when the identity belongs to another user.
	LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error
}

// GroupStore is the contract for the organizational tree. The core
// loads the full forest once and works on in-memory snapshots.
type GroupStore interface {
	// ListGroups returns every group with parent references set; paths
	// are derived by the hierarchy resolver, not stored.
	ListGroups(ctx context.Context) ([]hierarchy.Group, error)

	// CreateGroup inserts a group under its parent.
	CreateGroup(ctx context.Context, g hierarchy.Group) error

	// SetParent re-parents a group. Path recomputation happens in the
	// hierarchy snapshot; the durable store only records the edge.
	SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error
}

// MembershipStore is the contract role resolution reads from. It
// also satisfies roles.MembershipSource.
type MembershipStore interface {
	// ListByUser returns every membership the user holds.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]roles.Membership, error)

	// Upsert sets the user's role within a group, replacing any
	// existing role there: a user holds at most one role per group.
	Upsert(ctx context.Context, m roles.Membership) error

	// Remove deletes the user's membership in a group.
	Remove(ctx context.Context, userID, groupID uuid.UUID) error
}

// Store aggregates the directory contracts.
type Store interface {
	UserStore
	GroupStore
	MembershipStore
}
