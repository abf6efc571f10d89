package access

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lernhub/platform/pkg/capability"
	"github.com/lernhub/platform/pkg/clientip"
	"github.com/lernhub/platform/pkg/ratelimit"
)

// SessionCookieName is the cookie the token is read from when no
// Authorization header is present.
const SessionCookieName = "platform_session"

// TokenFromRequest extracts the session token from the Authorization
// bearer header or the session cookie. Empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if tok, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// GroupExtractor pulls the target group for a group-scoped action out
// of the request. A nil return means no target.
type GroupExtractor func(r *http.Request) *uuid.UUID

// GroupFromHeader reads the target group from a request header.
func GroupFromHeader(name string) GroupExtractor {
	return func(r *http.Request) *uuid.UUID {
		id, err := uuid.Parse(r.Header.Get(name))
		if err != nil {
			return nil
		}
		return &id
	}
}

// Require returns middleware that runs the full pipeline for the
// action before the handler. The decision lands in the request context.
func Require(gate *Gate, class ratelimit.RouteClass, action capability.Action, group GroupExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := CheckRequest{
				ClientKey: clientip.GetIP(r),
				Class:     class,
				Token:     TokenFromRequest(r),
				Action:    action,
			}
			if group != nil {
				req.GroupID = group(r)
			}
			// When an earlier gate on the chain already authenticated
			// the request, count against the user instead of the IP so
			// a shared NAT does not starve classmates.
			if s, ok := SessionFromContext(r.Context()); ok {
				req.ClientKey = s.UserID.String()
			}

			decide(gate, w, r, req, next)
		})
	}
}

// RateLimit returns middleware that applies only the rate stage, for
// routes that must work without a session.
func RateLimit(gate *Gate, class ratelimit.RouteClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decide(gate, w, r, CheckRequest{
				ClientKey: clientip.GetIP(r),
				Class:     class,
			}, next)
		})
	}
}

func decide(gate *Gate, w http.ResponseWriter, r *http.Request, req CheckRequest, next http.Handler) {
	d, err := gate.Check(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
		return
	}

	if d.Rate != nil {
		setRateHeaders(w, d.Rate)
	}

	switch d.Outcome {
	case OutcomePermitted:
		next.ServeHTTP(w, r.WithContext(withDecision(r.Context(), d)))
	case OutcomeRateLimited:
		retry := int(d.Rate.RetryAfter(time.Now()).Seconds())
		if retry < 1 {
			retry = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
	case OutcomeUnauthenticated:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	case OutcomeForbidden:
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
	}
}

func setRateHeaders(w http.ResponseWriter, rate *ratelimit.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rate.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rate.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rate.ResetAt.Unix(), 10))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
