package ratelimit

import (
	"context"
	"time"
)

// Store is the counter backend. Incr must be atomic at the store
// level; a read-then-write implementation would let concurrent
// requests exceed the limit.
type Store interface {
	// Incr increments the counter for the bucket key and returns the
	// post-increment count. The bucket is evicted at expireAt; a new
	// bucket starts at one.
	Incr(ctx context.Context, key string, expireAt time.Time) (int64, error)
}
