package session

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the token.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrInvalidConfig indicates missing or non-positive TTLs. An
	// unset TTL must never mean "no expiry".
	ErrInvalidConfig = errors.New("session.invalid_config")

	// ErrStoreUnavailable indicates the ephemeral store failed; callers
	// surface this as a transient infrastructure error, never as a
	// security decision.
	ErrStoreUnavailable = errors.New("session.store_unavailable")
)
