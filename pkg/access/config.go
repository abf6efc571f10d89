package access

import (
	"github.com/lernhub/platform/pkg/fedauth"
	"github.com/lernhub/platform/pkg/ratelimit"
	"github.com/lernhub/platform/pkg/session"
)

// Config aggregates the auth core's environment configuration so a
// service loads it in one call. Every nested field keeps its own env
// tags; validation of each section stays with the owning package.
type Config struct {
	Session session.Config
	Rate    ratelimit.Config
	Login   fedauth.Config
}

// Validate runs each section's own validation.
func (c Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Rate.Validate(); err != nil {
		return err
	}
	return c.Login.Validate()
}
