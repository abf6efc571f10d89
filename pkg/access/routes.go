package access

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lernhub/platform/pkg/fedauth"
	"github.com/lernhub/platform/pkg/ratelimit"
	"github.com/lernhub/platform/pkg/session"
)

// AuthRoutes mounts the federated-login endpoints behind the gate's
// rate stage. Login initiation and the code-exchange callback carry
// their own stricter bucket classes.
func AuthRoutes(gate *Gate, flow *fedauth.Flow, sessions *session.Manager) chi.Router {
	r := chi.NewRouter()

	r.With(RateLimit(gate, ratelimit.RouteClassLogin)).
		Post("/login/{provider}", func(w http.ResponseWriter, req *http.Request) {
			init, err := flow.Initiate(req.Context(), chi.URLParam(req, "provider"))
			if err != nil {
				if errors.Is(err, fedauth.ErrUnknownProvider) {
					writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown provider"})
					return
				}
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"redirect_url": init.RedirectURL})
		})

	r.With(RateLimit(gate, ratelimit.RouteClassExchange)).
		Get("/callback", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			s, _, err := flow.HandleCallback(req.Context(), q.Get("state"), q.Get("code"))
			if err != nil {
				writeCallbackError(w, err)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    s.Token,
				Path:     "/",
				Expires:  s.ExpiresAt,
				HttpOnly: true,
				Secure:   true,
				SameSite: http.SameSiteLaxMode,
			})
			writeJSON(w, http.StatusOK, map[string]string{"user_id": s.UserID.String()})
		})

	r.With(RateLimit(gate, ratelimit.RouteClassGeneral)).
		Post("/logout", func(w http.ResponseWriter, req *http.Request) {
			if err := sessions.Revoke(req.Context(), TokenFromRequest(req)); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    "",
				Path:     "/",
				Expires:  time.Unix(0, 0),
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   true,
				SameSite: http.SameSiteLaxMode,
			})
			writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
		})

	return r
}

func writeCallbackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fedauth.ErrStateMismatch),
		errors.Is(err, fedauth.ErrExchangeFailed):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login could not be completed"})
	case errors.Is(err, fedauth.ErrSignupDisabled),
		errors.Is(err, fedauth.ErrUnverifiedEmail):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "account cannot be provisioned"})
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	}
}
