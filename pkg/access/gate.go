package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lernhub/platform/pkg/capability"
	"github.com/lernhub/platform/pkg/directory"
	"github.com/lernhub/platform/pkg/hierarchy"
	"github.com/lernhub/platform/pkg/logger"
	"github.com/lernhub/platform/pkg/ratelimit"
	"github.com/lernhub/platform/pkg/roles"
	"github.com/lernhub/platform/pkg/session"
	"github.com/lernhub/platform/pkg/token"
)

// Gate runs the decision pipeline.
type Gate struct {
	limiter  *ratelimit.Limiter
	sessions *session.Manager
	roles    *roles.Resolver
	caps     *capability.Compiler
	metrics  *Metrics
	log      *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate's logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// WithMetrics sets the gate's decision metrics.
func WithMetrics(m *Metrics) Option {
	return func(g *Gate) {
		if m != nil {
			g.metrics = m
		}
	}
}

// NewGate wires the pipeline stages together.
func NewGate(limiter *ratelimit.Limiter, sessions *session.Manager, resolver *roles.Resolver, caps *capability.Compiler, opts ...Option) *Gate {
	g := &Gate{
		limiter:  limiter,
		sessions: sessions,
		roles:    resolver,
		caps:     caps,
		log:      logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// isStoreUnavailable reports whether the error is a transient backing
// store failure, regardless of which stage raised it.
func isStoreUnavailable(err error) bool {
	return errors.Is(err, ratelimit.ErrStoreUnavailable) ||
		errors.Is(err, session.ErrStoreUnavailable) ||
		errors.Is(err, directory.ErrStoreUnavailable)
}

// withRetry runs fn and retries it once, synchronously, when the
// failure is a transient store error. Anything else surfaces at once.
func (g *Gate) withRetry(ctx context.Context, stage string, fn func() error) error {
	err := fn()
	if err == nil || !isStoreUnavailable(err) {
		return err
	}

	g.log.WarnContext(ctx, "store failure, retrying once",
		slog.String("stage", stage), slog.Any("error", err))
	if g.metrics != nil {
		g.metrics.retries.WithLabelValues(stage).Inc()
	}
	return fn()
}

// Check runs the pipeline for one request. A non-nil error is always
// an infrastructure failure; every policy verdict arrives as a
// Decision with a nil error.
func (g *Gate) Check(ctx context.Context, req CheckRequest) (*Decision, error) {
	d, err := g.check(ctx, req)
	if err != nil {
		return nil, err
	}

	if g.metrics != nil {
		g.metrics.decisions.WithLabelValues(d.Outcome.String(), req.Class.String()).Inc()
	}
	if d.Outcome != OutcomePermitted {
		g.log.InfoContext(ctx, "request denied",
			slog.String("outcome", d.Outcome.String()),
			slog.String("class", req.Class.String()),
			slog.String("action", string(req.Action)),
			slog.String("token", token.Mask(req.Token)),
		)
	}
	return d, nil
}

func (g *Gate) check(ctx context.Context, req CheckRequest) (*Decision, error) {
	d := &Decision{Outcome: OutcomePermitted}

	var rate *ratelimit.Result
	err := g.withRetry(ctx, "ratelimit", func() error {
		var err error
		rate, err = g.limiter.Allow(ctx, req.ClientKey, req.Class)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	d.Rate = rate
	if !rate.Permitted {
		d.Outcome = OutcomeRateLimited
		return d, nil
	}

	// Anonymous routes stop after the rate stage.
	if req.Action == "" {
		return d, nil
	}

	var (
		s     *session.Session
		state session.State
	)
	err = g.withRetry(ctx, "session", func() error {
		var err error
		s, state, err = g.sessions.Validate(ctx, req.Token)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("session check: %w", err)
	}
	d.Session = s
	d.SessionState = state
	if !state.Valid() {
		d.Outcome = OutcomeUnauthenticated
		return d, nil
	}

	role, err := g.resolveRole(ctx, req, s)
	if err != nil {
		// A vanished target group is a denial, not an outage.
		if errors.Is(err, hierarchy.ErrGroupNotFound) {
			d.Outcome = OutcomeForbidden
			return d, nil
		}
		return nil, fmt.Errorf("role check: %w", err)
	}
	d.Role = role

	if !g.caps.Allows(role, req.Action) {
		d.Outcome = OutcomeForbidden
		return d, nil
	}
	return d, nil
}

// resolveRole picks the resolution scope for the action: group-scoped
// actions resolve against the target group, platform-scoped ones
// against the user's best role anywhere.
func (g *Gate) resolveRole(ctx context.Context, req CheckRequest, s *session.Session) (roles.Role, error) {
	scope, known := g.caps.ScopeOf(req.Action)
	if !known {
		// Unknown action: fail closed with no role.
		return roles.RoleNone, nil
	}

	// A group-scoped action with no target cannot be granted.
	if scope == capability.ScopeGroup && req.GroupID == nil {
		return roles.RoleNone, nil
	}

	var role roles.Role
	err := g.withRetry(ctx, "roles", func() error {
		var err error
		if scope == capability.ScopeGroup {
			role, err = g.roles.EffectiveRole(ctx, s.UserID, *req.GroupID)
		} else {
			role, err = g.roles.MaxRole(ctx, s.UserID)
		}
		return err
	})
	if err != nil {
		return roles.RoleNone, err
	}
	return role, nil
}
