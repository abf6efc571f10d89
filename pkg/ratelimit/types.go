package ratelimit

import (
	"fmt"
	"time"
)

// RouteClass partitions routes by sensitivity. The set is closed: an
// unrecognized class is a startup or programming error, not a silent
// fall-through to the general limit.
type RouteClass int

const (
	// RouteClassGeneral covers ordinary authenticated traffic.
	RouteClassGeneral RouteClass = iota
	// RouteClassLogin covers login initiation; stricter than general.
	RouteClassLogin
	// RouteClassExchange covers the federated-login token exchange
	// callback; stricter than general.
	RouteClassExchange
)

// String returns the class name used in bucket keys and logs.
func (c RouteClass) String() string {
	switch c {
	case RouteClassGeneral:
		return "general"
	case RouteClassLogin:
		return "login"
	case RouteClassExchange:
		return "exchange"
	default:
		return fmt.Sprintf("route_class(%d)", int(c))
	}
}

// Result reports a rate-limit decision. Remaining and ResetAt are
// exposed to clients as retry guidance.
type Result struct {
	Permitted bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the client should wait. Zero when the
// request was permitted.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Permitted {
		return 0
	}
	return r.ResetAt.Sub(now)
}

// Config holds the per-route-class limits and the shared window size.
// All fields are required; startup fails on missing values.
type Config struct {
	// Window is the fixed window size; boundaries are wall-clock aligned.
	Window time.Duration `env:"RATELIMIT_WINDOW,required"`

	GeneralLimit  int `env:"RATELIMIT_GENERAL_LIMIT,required"`
	LoginLimit    int `env:"RATELIMIT_LOGIN_LIMIT,required"`
	ExchangeLimit int `env:"RATELIMIT_EXCHANGE_LIMIT,required"`
}

// Validate rejects configurations that would disable or weaken limiting.
func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	for class, limit := range map[RouteClass]int{
		RouteClassGeneral:  c.GeneralLimit,
		RouteClassLogin:    c.LoginLimit,
		RouteClassExchange: c.ExchangeLimit,
	} {
		if limit <= 0 {
			return fmt.Errorf("%w: %s limit must be positive, got %d", ErrInvalidConfig, class, limit)
		}
	}
	if c.LoginLimit >= c.GeneralLimit || c.ExchangeLimit >= c.GeneralLimit {
		return fmt.Errorf("%w: auth-sensitive limits must be stricter than the general limit", ErrInvalidConfig)
	}
	return nil
}

// limitFor returns the configured limit for the class.
func (c Config) limitFor(class RouteClass) (int, error) {
	switch class {
	case RouteClassGeneral:
		return c.GeneralLimit, nil
	case RouteClassLogin:
		return c.LoginLimit, nil
	case RouteClassExchange:
		return c.ExchangeLimit, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownRouteClass, class)
	}
}
