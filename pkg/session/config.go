package session

import (
	"fmt"
	"time"
)

// Config holds session lifetime settings. Both TTLs are required:
// startup fails rather than defaulting to a weaker policy.
type Config struct {
	// IdleTTL bounds the gap between two uses of a session.
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL,required"`

	// AbsoluteTTL bounds the total session lifetime from creation.
	AbsoluteTTL time.Duration `env:"SESSION_ABSOLUTE_TTL,required"`
}

// Validate rejects configurations that would disable expiry.
func (c Config) Validate() error {
	if c.IdleTTL <= 0 {
		return fmt.Errorf("%w: idle TTL must be positive, got %v", ErrInvalidConfig, c.IdleTTL)
	}
	if c.AbsoluteTTL <= 0 {
		return fmt.Errorf("%w: absolute TTL must be positive, got %v", ErrInvalidConfig, c.AbsoluteTTL)
	}
	if c.IdleTTL > c.AbsoluteTTL {
		return fmt.Errorf("%w: idle TTL %v exceeds absolute TTL %v", ErrInvalidConfig, c.IdleTTL, c.AbsoluteTTL)
	}
	return nil
}
