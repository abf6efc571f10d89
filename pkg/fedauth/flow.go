package fedauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/lernhub/platform/pkg/directory"
	"github.com/lernhub/platform/pkg/logger"
	"github.com/lernhub/platform/pkg/session"
	"github.com/lernhub/platform/pkg/token"
)

// Config holds login-flow policy. The attempt TTL is required: an
// unset value must not mean attempts live forever.
type Config struct {
	// AttemptTTL bounds the time between initiation and callback.
	AttemptTTL time.Duration `env:"LOGIN_ATTEMPT_TTL,required"`

	// AllowSignup permits creating a local account on first login.
	AllowSignup bool `env:"LOGIN_ALLOW_SIGNUP" envDefault:"true"`

	// VerifiedEmailOnly rejects identities whose email the provider
	// does not assert as verified.
	VerifiedEmailOnly bool `env:"LOGIN_VERIFIED_EMAIL_ONLY" envDefault:"true"`
}

// Validate rejects configurations that would weaken the handshake.
func (c Config) Validate() error {
	if c.AttemptTTL <= 0 {
		return fmt.Errorf("%w: attempt TTL must be positive, got %v", ErrInvalidConfig, c.AttemptTTL)
	}
	return nil
}

// Initiation is what the transport layer needs to start a login: the
// provider redirect and the state echoed back by the callback.
type Initiation struct {
	RedirectURL string
	State       string
}

// Flow coordinates the handshake between providers, the ephemeral
// attempt store, the directory, and the session manager.
type Flow struct {
	providers map[string]Provider
	attempts  AttemptStore
	users     directory.UserStore
	sessions  *session.Manager
	cfg       Config
	clk       clock.Clock
	log       *slog.Logger
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the flow's logger.
func WithLogger(log *slog.Logger) Option {
	return func(f *Flow) {
		if log != nil {
			f.log = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(clk clock.Clock) Option {
	return func(f *Flow) {
		if clk != nil {
			f.clk = clk
		}
	}
}

// NewFlow creates a login flow over the given providers.
func NewFlow(providers []Provider, attempts AttemptStore, users directory.UserStore, sessions *session.Manager, cfg Config, opts ...Option) (*Flow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	byID := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byID[p.ID()] = p
	}

	f := &Flow{
		providers: byID,
		attempts:  attempts,
		users:     users,
		sessions:  sessions,
		cfg:       cfg,
		clk:       clock.New(),
		log:       logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Initiate starts a login with the given provider: it generates the
// state value and PKCE verifier, persists the attempt, and returns the
// redirect target embedding the challenge.
func (f *Flow) Initiate(ctx context.Context, providerID string) (*Initiation, error) {
	provider, ok := f.providers[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}

	state, err := token.New()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	now := f.clk.Now()
	attempt := &Attempt{
		State:     state,
		Verifier:  verifier,
		Provider:  providerID,
		CreatedAt: now,
		ExpiresAt: now.Add(f.cfg.AttemptTTL),
	}
	if err := f.attempts.Save(ctx, attempt); err != nil {
		return nil, fmt.Errorf("save login attempt: %w", err)
	}

	f.log.InfoContext(ctx, "login initiated",
		slog.String("provider", providerID),
		slog.String("flow_state", string(FlowInitiated)),
		slog.String("state", token.Mask(state)),
	)

	return &Initiation{
		RedirectURL: provider.AuthCodeURL(state, verifier),
		State:       state,
	}, nil
}

// HandleCallback completes a login. The stored attempt is consumed
// atomically first, so a replayed callback fails before any provider
// traffic, and a session exists only after every step has succeeded.
func (f *Flow) HandleCallback(ctx context.Context, returnedState, authCode string) (*session.Session, *directory.User, error) {
	attempt, err := f.attempts.Consume(ctx, returnedState)
	if err != nil {
		if errors.Is(err, ErrStateMismatch) {
			f.log.WarnContext(ctx, "login state mismatch",
				slog.String("flow_state", string(FlowFailed)),
				slog.String("state", token.Mask(returnedState)),
			)
		}
		return nil, nil, err
	}

	if f.clk.Now().After(attempt.ExpiresAt) {
		return nil, nil, fmt.Errorf("%w: attempt expired", ErrStateMismatch)
	}

	provider, ok := f.providers[attempt.Provider]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, attempt.Provider)
	}

	identity, err := provider.Exchange(ctx, authCode, attempt.Verifier)
	if err != nil {
		f.log.WarnContext(ctx, "code exchange failed",
			slog.String("provider", attempt.Provider),
			slog.String("flow_state", string(FlowFailed)),
		)
		return nil, nil, err
	}

	user, err := f.resolveUser(ctx, provider.ID(), identity)
	if err != nil {
		return nil, nil, err
	}

	s, err := f.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	f.log.InfoContext(ctx, "login completed",
		slog.String("provider", attempt.Provider),
		slog.String("flow_state", string(FlowLinked)),
		slog.String("user_id", user.ID.String()),
	)
	return s, user, nil
}

// resolveUser maps a verified identity to a local account, linking or
// provisioning according to policy.
func (f *Flow) resolveUser(ctx context.Context, providerID string, identity Identity) (*directory.User, error) {
	user, err := f.users.GetUserByIdentity(ctx, providerID, identity.ProviderUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, directory.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if f.cfg.VerifiedEmailOnly && !identity.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	// A known email means an existing account logging in with a new
	// provider: link instead of provisioning a duplicate.
	user, err = f.users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		if err := f.users.LinkIdentity(ctx, user.ID, providerID, identity.ProviderUserID); err != nil {
			return nil, fmt.Errorf("link identity: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, directory.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve email: %w", err)
	}

	if !f.cfg.AllowSignup {
		return nil, ErrSignupDisabled
	}

	user = &directory.User{
		ID:        uuid.New(),
		Email:     directory.NormalizeEmail(identity.Email),
		Name:      identity.Name,
		CreatedAt: f.clk.Now(),
	}
	if err := f.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	if err := f.users.LinkIdentity(ctx, user.ID, providerID, identity.ProviderUserID); err != nil {
		return nil, fmt.Errorf("link identity: %w", err)
	}
	return user, nil
}
