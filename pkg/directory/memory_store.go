package directory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lernhub/platform/pkg/hierarchy"
	"github.com/lernhub/platform/pkg/roles"
)

// MemoryStore implements Store in process, for tests and single-node
// development.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*User
	identities  map[string]IdentityLink // provider + "\x00" + providerUserID
	groups      map[uuid.UUID]hierarchy.Group
	memberships map[uuid.UUID]map[uuid.UUID]roles.Role // user -> group -> role
}

// NewMemoryStore creates an empty in-memory directory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uuid.UUID]*User),
		identities:  make(map[string]IdentityLink),
		groups:      make(map[uuid.UUID]hierarchy.Group),
		memberships: make(map[uuid.UUID]map[uuid.UUID]roles.Role),
	}
}

func identityKey(provider, providerUserID string) string {
	return provider + "\x00" + providerUserID
}

// CreateUser inserts a new account.
func (m *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := NormalizeEmail(u.Email)
	for _, existing := range m.users {
		if existing.Email == email {
			return ErrEmailTaken
		}
	}

	copied := *u
	copied.Email = email
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	m.users[u.ID] = &copied
	return nil
}

// GetUserByID loads an account.
func (m *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// GetUserByEmail loads an account by normalized email.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetUserByIdentity resolves an external identity to its linked account.
func (m *MemoryStore) GetUserByIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.identities[identityKey(provider, providerUserID)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u, ok := m.users[link.UserID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// LinkIdentity attaches an external identity to an account.
func (m *MemoryStore) LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := identityKey(provider, providerUserID)
	if link, ok := m.identities[key]; ok && link.UserID != userID {
		return ErrIdentityLinked
	}
	m.identities[key] = IdentityLink{
		UserID:         userID,
		Provider:       provider,
		ProviderUserID: providerUserID,
		LinkedAt:       time.Now(),
	}
	return nil
}

// ListGroups returns every group.
func (m *MemoryStore) ListGroups(ctx context.Context) ([]hierarchy.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]hierarchy.Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	return groups, nil
}

// CreateGroup inserts a group.
func (m *MemoryStore) CreateGroup(ctx context.Context, g hierarchy.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.groups[g.ID] = g
	return nil
}

// SetParent records a new parent edge.
func (m *MemoryStore) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[id]
	if !ok {
		return hierarchy.ErrGroupNotFound
	}
	g.ParentID = parentID
	m.groups[id] = g
	return nil
}

// ListByUser returns the user's memberships.
func (m *MemoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]roles.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byGroup := m.memberships[userID]
	memberships := make([]roles.Membership, 0, len(byGroup))
	for groupID, role := range byGroup {
		memberships = append(memberships, roles.Membership{
			UserID:  userID,
			GroupID: groupID,
			Role:    role,
		})
	}
	return memberships, nil
}

// Upsert sets the user's single role within a group.
func (m *MemoryStore) Upsert(ctx context.Context, mem roles.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byGroup, ok := m.memberships[mem.UserID]
	if !ok {
		byGroup = make(map[uuid.UUID]roles.Role)
		m.memberships[mem.UserID] = byGroup
	}
	byGroup[mem.GroupID] = mem.Role
	return nil
}

// Remove deletes the user's membership in a group.
func (m *MemoryStore) Remove(ctx context.Context, userID, groupID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.memberships[userID], groupID)
	return nil
}
