package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side record keyed by an opaque bearer token.
// The token is the only thing the client holds; it is treated as a
// secret and never logged in full.
type Session struct {
	Token          string    `json:"token"`
	UserID         uuid.UUID `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	// ExpiresAt is the absolute expiry fixed at creation. Validation
	// never extends it, and the session is invalid past it even if the
	// store has not evicted the record yet.
	ExpiresAt time.Time `json:"expires_at"`

	Revoked bool `json:"revoked"`
}

// State classifies a token presented for validation.
type State int

const (
	// StateAbsent means no session exists for the token (missing,
	// malformed, or evicted).
	StateAbsent State = iota
	// StateActive means the session is valid; validation refreshed
	// the idle deadline.
	StateActive
	// StateIdleExpired means the idle TTL elapsed since the last
	// activity. Terminal; the user must re-authenticate.
	StateIdleExpired
	// StateAbsoluteExpired means the absolute expiry passed. Terminal;
	// the record is purged.
	StateAbsoluteExpired
	// StateRevoked means the session was explicitly revoked.
	StateRevoked
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateActive:
		return "active"
	case StateIdleExpired:
		return "idle_expired"
	case StateAbsoluteExpired:
		return "absolute_expired"
	case StateRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// Valid reports whether the state permits the request to proceed.
func (s State) Valid() bool {
	return s == StateActive
}
