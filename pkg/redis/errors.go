package redis

import "errors"

var (
	// ErrInvalidConnectionURL indicates the connection string could not be parsed.
	ErrInvalidConnectionURL = errors.New("redis.invalid_connection_url")

	// ErrNotReady indicates the server did not answer a ping within the
	// configured attempts.
	ErrNotReady = errors.New("redis.not_ready")

	// ErrHealthcheckFailed indicates a runtime ping failure.
	ErrHealthcheckFailed = errors.New("redis.healthcheck_failed")
)
