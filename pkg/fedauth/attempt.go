package fedauth

import (
	"context"
	"time"
)

// FlowState labels the stages of one login attempt, for logging and
// audit. Failed is terminal from any stage.
type FlowState string

const (
	FlowInitiated       FlowState = "initiated"
	FlowPendingCallback FlowState = "pending_callback"
	FlowExchanged       FlowState = "exchanged"
	FlowLinked          FlowState = "linked"
	FlowFailed          FlowState = "failed"
)

// Attempt is the server-side half of one login initiation: the state
// value the provider echoes back and the PKCE verifier that never
// leaves the platform.
type Attempt struct {
	State     string    `json:"state"`
	Verifier  string    `json:"verifier"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttemptStore persists login attempts for their short lifetime.
// Consume must be a single atomic get-and-delete at the store level:
// of two concurrent callbacks carrying the same state, exactly one may
// receive the attempt.
type AttemptStore interface {
	// Save persists the attempt until its expiry.
	Save(ctx context.Context, a *Attempt) error

	// Consume atomically retrieves and deletes the attempt. Returns
	// ErrStateMismatch when the state is unknown, expired, or already
	// consumed.
	Consume(ctx context.Context, state string) (*Attempt, error)
}
