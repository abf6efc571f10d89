package access

import (
	"context"

	"github.com/lernhub/platform/pkg/session"
)

type contextKey int

const decisionKey contextKey = iota

// withDecision stores the gate decision for downstream handlers.
func withDecision(ctx context.Context, d *Decision) context.Context {
	return context.WithValue(ctx, decisionKey, d)
}

// DecisionFromContext returns the gate decision the middleware stored,
// or ok=false outside a gated route.
func DecisionFromContext(ctx context.Context) (*Decision, bool) {
	d, ok := ctx.Value(decisionKey).(*Decision)
	return d, ok
}

// SessionFromContext returns the active session on a gated route.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	d, ok := DecisionFromContext(ctx)
	if !ok || d.Session == nil {
		return nil, false
	}
	return d.Session, true
}
