package fedauth

import (
	"context"
	"sync"
)

// MemoryAttemptStore implements AttemptStore in process. Consume
// deletes under the lock, giving the same one-winner guarantee the
// Redis implementation gets from GETDEL.
type MemoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
}

// NewMemoryAttemptStore creates an empty in-memory attempt store.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{attempts: make(map[string]*Attempt)}
}

// Save persists the attempt.
func (m *MemoryAttemptStore) Save(ctx context.Context, a *Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *a
	m.attempts[a.State] = &copied
	return nil
}

// Consume atomically retrieves and deletes the attempt.
func (m *MemoryAttemptStore) Consume(ctx context.Context, state string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attempts[state]
	if !ok {
		return nil, ErrStateMismatch
	}
	delete(m.attempts, state)

	// Expiry is enforced by the caller against its own time source;
	// the store only guarantees single consumption.
	copied := *a
	return &copied, nil
}
