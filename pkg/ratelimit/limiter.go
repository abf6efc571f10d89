package ratelimit

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
)

// Limiter applies fixed-window limits per identity and route class.
type Limiter struct {
	store Store
	cfg   Config
	clk   clock.Clock
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source, used by tests.
func WithClock(clk clock.Clock) Option {
	return func(l *Limiter) {
		if clk != nil {
			l.clk = clk
		}
	}
}

// NewLimiter creates a limiter. Fails on configurations that would
// weaken limiting.
func NewLimiter(store Store, cfg Config, opts ...Option) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{store: store, cfg: cfg, clk: clock.New()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow counts the request against the current window's bucket for
// (key, class) and reports whether it is permitted. key identifies the
// caller: a user ID once authenticated, a client IP before that.
func (l *Limiter) Allow(ctx context.Context, key string, class RouteClass) (*Result, error) {
	limit, err := l.cfg.limitFor(class)
	if err != nil {
		return nil, err
	}

	now := l.clk.Now()
	windowStart := now.Truncate(l.cfg.Window)
	resetAt := windowStart.Add(l.cfg.Window)

	// The window start in the key makes rollover a fresh bucket; the
	// old key just ages out of the store one window later.
	bucketKey := fmt.Sprintf("ratelimit:%s:%s:%d", class, key, windowStart.Unix())

	count, err := l.store.Incr(ctx, bucketKey, resetAt.Add(l.cfg.Window))
	if err != nil {
		return nil, err
	}

	if count > int64(limit) {
		return &Result{Permitted: false, Limit: limit, Remaining: 0, ResetAt: resetAt}, nil
	}

	return &Result{
		Permitted: true,
		Limit:     limit,
		Remaining: limit - int(count),
		ResetAt:   resetAt,
	}, nil
}
