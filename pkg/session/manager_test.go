package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernhub/platform/pkg/session"
)

func newManager(t *testing.T, cfg session.Config) (*session.Manager, *session.MemoryStore, *clock.Mock) {
	t.Helper()

	store := session.NewMemoryStore()
	clk := clock.NewMock()
	mgr, err := session.NewManager(store, cfg, session.WithClock(clk))
	require.NoError(t, err)
	return mgr, store, clk
}

func defaultConfig() session.Config {
	return session.Config{
		IdleTTL:     30 * time.Minute,
		AbsoluteTTL: 12 * time.Hour,
	}
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  session.Config
	}{
		{name: "zero idle TTL", cfg: session.Config{AbsoluteTTL: time.Hour}},
		{name: "zero absolute TTL", cfg: session.Config{IdleTTL: time.Hour}},
		{name: "negative idle TTL", cfg: session.Config{IdleTTL: -time.Minute, AbsoluteTTL: time.Hour}},
		{name: "idle exceeds absolute", cfg: session.Config{IdleTTL: 2 * time.Hour, AbsoluteTTL: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := session.NewManager(session.NewMemoryStore(), tt.cfg)
			assert.ErrorIs(t, err, session.ErrInvalidConfig)
		})
	}
}

func TestManager_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mgr, _, clk := newManager(t, defaultConfig())
	userID := uuid.New()

	s, err := mgr.Create(ctx, userID)
	require.NoError(t, err)

	assert.NotEmpty(t, s.Token)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, clk.Now(), s.CreatedAt)
	assert.Equal(t, clk.Now(), s.LastActivityAt)
	assert.Equal(t, clk.Now().Add(12*time.Hour), s.ExpiresAt)
	assert.False(t, s.Revoked)
}

func TestManager_Validate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sliding idle expiration", func(t *testing.T) {
		t.Parallel()

		mgr, _, clk := newManager(t, defaultConfig())
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)
		t0 := clk.Now()

		// t0+29min: still inside the idle window, refresh slides it.
		clk.Add(29 * time.Minute)
		got, state, err := mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateActive, state)
		assert.Equal(t, t0.Add(29*time.Minute), got.LastActivityAt)

		// t0+59min: 30min after the refreshed activity, idle expired.
		clk.Add(30 * time.Minute)
		_, state, err = mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateIdleExpired, state)
	})

	t.Run("active validation refreshes stored last-activity", func(t *testing.T) {
		t.Parallel()

		mgr, store, clk := newManager(t, defaultConfig())
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)

		clk.Add(10 * time.Minute)
		_, state, err := mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		require.Equal(t, session.StateActive, state)

		stored, err := store.Get(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, clk.Now(), stored.LastActivityAt)
	})

	t.Run("absolute expiry is terminal and purges the record", func(t *testing.T) {
		t.Parallel()

		mgr, store, clk := newManager(t, defaultConfig())
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)

		// Keep the session busy so only the absolute ceiling can end it.
		for range 24 {
			clk.Add(29 * time.Minute)
			_, state, err := mgr.Validate(ctx, s.Token)
			require.NoError(t, err)
			require.Equal(t, session.StateActive, state)
		}

		clk.Add(12 * time.Hour)
		_, state, err := mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateAbsoluteExpired, state)

		// Purged: subsequent validation sees no record at all.
		_, err = store.Get(ctx, s.Token)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		_, state, err = mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateAbsent, state)
	})

	t.Run("absolute expiry wins even when idle window is open", func(t *testing.T) {
		t.Parallel()

		cfg := session.Config{IdleTTL: time.Hour, AbsoluteTTL: time.Hour}
		mgr, _, clk := newManager(t, cfg)
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)

		clk.Add(time.Hour)
		_, state, err := mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateAbsoluteExpired, state)
	})

	t.Run("empty token is absent", func(t *testing.T) {
		t.Parallel()

		mgr, _, _ := newManager(t, defaultConfig())
		_, state, err := mgr.Validate(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, session.StateAbsent, state)
	})

	t.Run("unknown token is absent", func(t *testing.T) {
		t.Parallel()

		mgr, _, _ := newManager(t, defaultConfig())
		_, state, err := mgr.Validate(ctx, "never-issued")
		require.NoError(t, err)
		assert.Equal(t, session.StateAbsent, state)
	})

	t.Run("revoked wins over expiry checks", func(t *testing.T) {
		t.Parallel()

		mgr, _, clk := newManager(t, defaultConfig())
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)
		require.NoError(t, mgr.Revoke(ctx, s.Token))

		clk.Add(13 * time.Hour)
		_, state, err := mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateRevoked, state)
	})

	t.Run("concurrent validations agree and share one refresh", func(t *testing.T) {
		t.Parallel()

		mgr, store, clk := newManager(t, defaultConfig())
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)
		clk.Add(5 * time.Minute)

		const n = 32
		states := make([]session.State, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, state, err := mgr.Validate(ctx, s.Token)
				assert.NoError(t, err)
				states[i] = state
			}()
		}
		wg.Wait()

		for _, state := range states {
			assert.Equal(t, session.StateActive, state)
		}

		// All refreshes wrote the same timestamp; the stored value is
		// exactly one logical refresh, not a race-corrupted mix.
		stored, err := store.Get(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, clk.Now(), stored.LastActivityAt)
	})
}

func TestManager_Revoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		mgr, _, _ := newManager(t, defaultConfig())
		s, err := mgr.Create(ctx, uuid.New())
		require.NoError(t, err)

		require.NoError(t, mgr.Revoke(ctx, s.Token))
		require.NoError(t, mgr.Revoke(ctx, s.Token))

		_, state, err := mgr.Validate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, session.StateRevoked, state)
	})

	t.Run("missing token is not an error", func(t *testing.T) {
		t.Parallel()

		mgr, _, _ := newManager(t, defaultConfig())
		assert.NoError(t, mgr.Revoke(ctx, "never-issued"))
		assert.NoError(t, mgr.Revoke(ctx, ""))
	})
}

func TestManager_RevokeAllForUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mgr, _, _ := newManager(t, defaultConfig())
	userID := uuid.New()
	other := uuid.New()

	s1, err := mgr.Create(ctx, userID)
	require.NoError(t, err)
	s2, err := mgr.Create(ctx, userID)
	require.NoError(t, err)
	s3, err := mgr.Create(ctx, other)
	require.NoError(t, err)

	require.NoError(t, mgr.RevokeAllForUser(ctx, userID))

	for _, tok := range []string{s1.Token, s2.Token} {
		_, state, err := mgr.Validate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, session.StateRevoked, state)
	}

	_, state, err := mgr.Validate(ctx, s3.Token)
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, state, "other user's session unaffected")
}
