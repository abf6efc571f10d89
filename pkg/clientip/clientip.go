package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// GetIP returns the client address for the request. Proxy headers are
// consulted first: X-Forwarded-For (first valid hop), then X-Real-IP,
// then the connection's remote address.
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for hop := range strings.SplitSeq(forwarded, ",") {
			if ip := normalize(hop); ip != "" {
				return ip
			}
		}
	}

	if ip := normalize(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, seen in tests and unix sockets.
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// normalize parses and canonicalizes one address candidate, returning
// "" when it is not a valid IP.
func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.String()
}

type contextKey struct{}

// WithContext stores the client address on the context.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the stored client address, or "" when the
// middleware did not run.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware resolves the client address once per request and stores
// it on the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithContext(r.Context(), GetIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
