package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load populates a configuration struct from the environment based on
// `env` field tags. Required fields without a value cause an error.
//
// Example:
//
//	type SessionConfig struct {
//		IdleTTL     time.Duration `env:"SESSION_IDLE_TTL,required"`
//		AbsoluteTTL time.Duration `env:"SESSION_ABSOLUTE_TTL,required"`
//	}
//
//	cfg, err := config.Load[SessionConfig]()
func Load[T any]() (T, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional; absence is not an error.
		_ = godotenv.Load()
	})

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics on failure. Used for
// configuration the process cannot start without.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}
