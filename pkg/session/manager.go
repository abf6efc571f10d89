package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/lernhub/platform/pkg/logger"
	"github.com/lernhub/platform/pkg/token"
)

// Manager creates, validates, renews, and revokes sessions.
type Manager struct {
	store Store
	cfg   Config
	clk   clock.Clock
	log   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) {
		if clk != nil {
			m.clk = clk
		}
	}
}

// NewManager creates a session manager. Fails when the configuration
// would weaken expiry guarantees.
func NewManager(store Store, cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		store: store,
		cfg:   cfg,
		clk:   clock.New(),
		log:   logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create issues a new session for the user. The absolute expiry is
// fixed here and never moves.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID) (*Session, error) {
	tok, err := token.New()
	if err != nil {
		return nil, err
	}

	now := m.clk.Now()
	s := &Session{
		Token:          tok,
		UserID:         userID,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(m.cfg.AbsoluteTTL),
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.log.InfoContext(ctx, "session created",
		slog.String("token", token.Mask(tok)),
		slog.String("user_id", userID.String()),
		slog.Time("expires_at", s.ExpiresAt),
	)
	return s, nil
}

// Validate classifies the token and, when the session is active,
// slides the idle deadline by refreshing last-activity through a
// single atomic store write. A non-nil error is always an
// infrastructure failure; domain outcomes are carried in the State.
func (m *Manager) Validate(ctx context.Context, tok string) (*Session, State, error) {
	if tok == "" {
		return nil, StateAbsent, nil
	}

	s, err := m.store.Get(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, StateAbsent, nil
		}
		return nil, StateAbsent, fmt.Errorf("get session: %w", err)
	}

	now := m.clk.Now()

	switch {
	case s.Revoked:
		return s, StateRevoked, nil

	case !now.Before(s.ExpiresAt):
		// Terminal: purge the record rather than waiting for the
		// store's own eviction.
		if err := m.store.Delete(ctx, tok); err != nil {
			m.log.WarnContext(ctx, "failed to purge expired session",
				slog.String("token", token.Mask(tok)), slog.Any("error", err))
		}
		return s, StateAbsoluteExpired, nil

	case now.Sub(s.LastActivityAt) >= m.cfg.IdleTTL:
		return s, StateIdleExpired, nil
	}

	if err := m.store.Touch(ctx, tok, now); err != nil {
		return nil, StateAbsent, fmt.Errorf("touch session: %w", err)
	}
	s.LastActivityAt = now

	return s, StateActive, nil
}

// Revoke moves the session to the revoked state. Idempotent: revoking
// an already-revoked or missing session succeeds.
func (m *Manager) Revoke(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	if err := m.store.Revoke(ctx, tok); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	m.log.InfoContext(ctx, "session revoked", slog.String("token", token.Mask(tok)))
	return nil
}

// RevokeAllForUser revokes every session the user owns (logout
// everywhere). Requires a store with a user index.
func (m *Manager) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	indexed, ok := m.store.(UserIndexedStore)
	if !ok {
		return fmt.Errorf("%w: store does not index sessions by user", ErrStoreUnavailable)
	}
	if err := indexed.RevokeByUser(ctx, userID.String()); err != nil {
		return fmt.Errorf("revoke sessions for user: %w", err)
	}
	m.log.InfoContext(ctx, "all sessions revoked", slog.String("user_id", userID.String()))
	return nil
}
