package session

import (
	"context"
	"time"
)

// Store is the narrow contract the manager needs from the ephemeral
// store. Touch and Revoke must be atomic single writes at the store
// level; no method may require the caller to read-modify-write.
type Store interface {
	// Create persists a new session. The store may additionally evict
	// the record on its own at the session's absolute expiry.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by token. Returns ErrSessionNotFound
	// when absent or already evicted.
	Get(ctx context.Context, token string) (*Session, error)

	// Touch atomically overwrites the session's last-activity time.
	Touch(ctx context.Context, token string, at time.Time) error

	// Revoke atomically sets the revoked flag. Idempotent; revoking a
	// missing session is not an error.
	Revoke(ctx context.Context, token string) error

	// Delete removes a session record. Deleting a missing session is
	// not an error.
	Delete(ctx context.Context, token string) error
}

// UserIndexedStore is an optional extension for stores that can find
// all sessions belonging to a user, enabling logout-everywhere.
type UserIndexedStore interface {
	Store

	// RevokeByUser revokes every session owned by the user.
	RevokeByUser(ctx context.Context, userID string) error
}
