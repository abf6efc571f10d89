package ratelimit

import "errors"

var (
	// ErrInvalidConfig indicates missing or non-positive limits or
	// window size, or auth limits that are not stricter than general.
	ErrInvalidConfig = errors.New("ratelimit.invalid_config")

	// ErrUnknownRouteClass indicates a route class outside the closed set.
	ErrUnknownRouteClass = errors.New("ratelimit.unknown_route_class")

	// ErrStoreUnavailable indicates the counter store failed; callers
	// surface this as a transient infrastructure error, never as a
	// rate-limit decision.
	ErrStoreUnavailable = errors.New("ratelimit.store_unavailable")
)
