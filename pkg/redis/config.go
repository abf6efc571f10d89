package redis

import "time"

// Config holds connection settings for the ephemeral store.
type Config struct {
	// ConnectionURL in the form "redis://:password@host:6379/0".
	ConnectionURL string `env:"REDIS_URL,required"`

	// ConnectTimeout bounds the total time spent establishing the
	// initial connection, including retries.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
}
