package fedauth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "login_attempt:"

// RedisAttemptStore implements AttemptStore on Redis. The attempt is
// one JSON value with the attempt TTL; GETDEL makes consumption a
// single atomic operation, so a state value can be redeemed exactly
// once across all service instances.
type RedisAttemptStore struct {
	client redis.UniversalClient
}

// NewRedisAttemptStore creates a Redis-backed attempt store.
func NewRedisAttemptStore(client redis.UniversalClient) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

func attemptKey(state string) string {
	return attemptKeyPrefix + state
}

// Save persists the attempt until its expiry.
func (r *RedisAttemptStore) Save(ctx context.Context, a *Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	ttl := time.Until(a.ExpiresAt)
	if ttl <= 0 {
		return ErrInvalidConfig
	}

	if err := r.client.Set(ctx, attemptKey(a.State), data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Consume atomically retrieves and deletes the attempt.
func (r *RedisAttemptStore) Consume(ctx context.Context, state string) (*Attempt, error) {
	data, err := r.client.GetDel(ctx, attemptKey(state)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateMismatch
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var a Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, ErrStateMismatch
	}
	return &a, nil
}
