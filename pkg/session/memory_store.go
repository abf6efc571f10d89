package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map. Touch and
// Revoke hold the write lock for the single field update, matching the
// atomicity the interface demands. For tests and single-node use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create stores a copy of the session.
func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *s
	m.sessions[s.Token] = &copied
	return nil
}

// Get returns a copy of the session for the token.
func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

// Touch overwrites last-activity in a single locked write.
func (m *MemoryStore) Touch(ctx context.Context, token string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastActivityAt = at
	return nil
}

// Revoke sets the revoked flag; missing sessions are ignored.
func (m *MemoryStore) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[token]; ok {
		s.Revoked = true
	}
	return nil
}

// Delete removes the session record.
func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// RevokeByUser revokes every session owned by the user.
func (m *MemoryStore) RevokeByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.UserID.String() == userID {
			s.Revoked = true
		}
	}
	return nil
}
