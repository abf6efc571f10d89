package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. INCR is atomic server-side,
// which is what makes the limit accurate across service instances.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Incr increments the bucket and sets its expiry on first touch. The
// two commands run in one MULTI/EXEC block so a crash between them
// cannot leave an unexpiring counter.
func (r *RedisStore) Incr(ctx context.Context, key string, expireAt time.Time) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, time.Until(expireAt))

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return incr.Val(), nil
}
