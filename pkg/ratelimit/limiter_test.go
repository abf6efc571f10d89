package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernhub/platform/pkg/ratelimit"
)

func testConfig() ratelimit.Config {
	return ratelimit.Config{
		Window:        time.Minute,
		GeneralLimit:  100,
		LoginLimit:    5,
		ExchangeLimit: 5,
	}
}

func newLimiter(t *testing.T) (*ratelimit.Limiter, *clock.Mock) {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 8, 25, 12, 0, 30, 0, time.UTC))
	l, err := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), testConfig(), ratelimit.WithClock(clk))
	require.NoError(t, err)
	return l, clk
}

func TestNewLimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimit.Config
	}{
		{name: "zero window", cfg: ratelimit.Config{GeneralLimit: 10, LoginLimit: 5, ExchangeLimit: 5}},
		{name: "zero general limit", cfg: ratelimit.Config{Window: time.Minute, LoginLimit: 5, ExchangeLimit: 5}},
		{name: "negative login limit", cfg: ratelimit.Config{Window: time.Minute, GeneralLimit: 10, LoginLimit: -1, ExchangeLimit: 5}},
		{
			name: "login limit not stricter than general",
			cfg:  ratelimit.Config{Window: time.Minute, GeneralLimit: 10, LoginLimit: 10, ExchangeLimit: 5},
		},
		{
			name: "exchange limit not stricter than general",
			cfg:  ratelimit.Config{Window: time.Minute, GeneralLimit: 10, LoginLimit: 5, ExchangeLimit: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), tt.cfg)
			assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
		})
	}
}

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("login limit of five with decreasing remaining", func(t *testing.T) {
		t.Parallel()

		l, _ := newLimiter(t)

		for want := 4; want >= 0; want-- {
			res, err := l.Allow(ctx, "user-1", ratelimit.RouteClassLogin)
			require.NoError(t, err)
			assert.True(t, res.Permitted)
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 5, res.Limit)
		}

		res, err := l.Allow(ctx, "user-1", ratelimit.RouteClassLogin)
		require.NoError(t, err)
		assert.False(t, res.Permitted)
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("window rollover resets the count", func(t *testing.T) {
		t.Parallel()

		l, clk := newLimiter(t)

		for range 5 {
			_, err := l.Allow(ctx, "user-2", ratelimit.RouteClassLogin)
			require.NoError(t, err)
		}
		res, err := l.Allow(ctx, "user-2", ratelimit.RouteClassLogin)
		require.NoError(t, err)
		require.False(t, res.Permitted)

		// Cross the wall-clock boundary: a fresh bucket starts.
		clk.Set(res.ResetAt.Add(time.Second))
		res, err = l.Allow(ctx, "user-2", ratelimit.RouteClassLogin)
		require.NoError(t, err)
		assert.True(t, res.Permitted)
		assert.Equal(t, 4, res.Remaining)
	})

	t.Run("reset time is the wall-aligned window end", func(t *testing.T) {
		t.Parallel()

		l, clk := newLimiter(t)

		res, err := l.Allow(ctx, "user-3", ratelimit.RouteClassGeneral)
		require.NoError(t, err)
		assert.Equal(t, clk.Now().Truncate(time.Minute).Add(time.Minute), res.ResetAt)
	})

	t.Run("keys and classes are independent buckets", func(t *testing.T) {
		t.Parallel()

		l, _ := newLimiter(t)

		for range 5 {
			_, err := l.Allow(ctx, "user-4", ratelimit.RouteClassLogin)
			require.NoError(t, err)
		}

		// Same key, different class: unaffected.
		res, err := l.Allow(ctx, "user-4", ratelimit.RouteClassGeneral)
		require.NoError(t, err)
		assert.True(t, res.Permitted)

		// Same class, different key: unaffected.
		res, err = l.Allow(ctx, "user-5", ratelimit.RouteClassLogin)
		require.NoError(t, err)
		assert.True(t, res.Permitted)
	})

	t.Run("unknown route class rejected", func(t *testing.T) {
		t.Parallel()

		l, _ := newLimiter(t)
		_, err := l.Allow(ctx, "user-6", ratelimit.RouteClass(99))
		assert.ErrorIs(t, err, ratelimit.ErrUnknownRouteClass)
	})

	t.Run("concurrent requests cannot exceed the limit", func(t *testing.T) {
		t.Parallel()

		l, _ := newLimiter(t)

		const attempts = 50
		var permitted atomic.Int64
		var wg sync.WaitGroup
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := l.Allow(ctx, "user-7", ratelimit.RouteClassLogin)
				assert.NoError(t, err)
				if res.Permitted {
					permitted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(5), permitted.Load())
	})
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 25, 12, 0, 30, 0, time.UTC)
	denied := &ratelimit.Result{Permitted: false, ResetAt: now.Add(30 * time.Second)}
	assert.Equal(t, 30*time.Second, denied.RetryAfter(now))

	allowed := &ratelimit.Result{Permitted: true, ResetAt: now.Add(30 * time.Second)}
	assert.Equal(t, time.Duration(0), allowed.RetryAfter(now))
}

func TestMemoryStore_IncrBasic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := ratelimit.NewMemoryStore()
	expire := time.Now().Add(time.Minute)

	n, err := store.Incr(ctx, "bucket", expire)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Incr(ctx, "bucket", expire)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Expired buckets restart at one.
	n, err = store.Incr(ctx, "stale", time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = store.Incr(ctx, "stale", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
