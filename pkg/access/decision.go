package access

import (
	"github.com/google/uuid"

	"github.com/lernhub/platform/pkg/capability"
	"github.com/lernhub/platform/pkg/ratelimit"
	"github.com/lernhub/platform/pkg/roles"
	"github.com/lernhub/platform/pkg/session"
)

// Outcome classifies a gate decision. The set is closed; transports
// map each value to exactly one response class.
type Outcome int

const (
	// OutcomePermitted lets the request through.
	OutcomePermitted Outcome = iota
	// OutcomeRateLimited means the caller's bucket is exhausted.
	OutcomeRateLimited
	// OutcomeUnauthenticated means no active session backs the request.
	OutcomeUnauthenticated
	// OutcomeForbidden means the session is fine but the effective role
	// does not permit the action.
	OutcomeForbidden
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomePermitted:
		return "permitted"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// CheckRequest carries everything the gate needs for one decision.
type CheckRequest struct {
	// ClientKey identifies the caller for rate limiting: the user ID
	// once authenticated, the client IP before that.
	ClientKey string

	// Class selects the rate-limit bucket family.
	Class ratelimit.RouteClass

	// Token is the presented session token; empty on anonymous routes.
	Token string

	// Action is the capability to check; empty skips the session, role,
	// and capability stages (login routes).
	Action capability.Action

	// GroupID is the target group for group-scoped actions.
	GroupID *uuid.UUID
}

// Decision is the gate's verdict plus the context later stages reuse,
// so handlers never re-resolve what the gate already paid for.
type Decision struct {
	Outcome Outcome

	// Session and SessionState are set once the session stage ran.
	Session      *session.Session
	SessionState session.State

	// Role is the effective role, set once the role stage ran.
	Role roles.Role

	// Rate carries limit guidance for response headers.
	Rate *ratelimit.Result
}
