package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	userIndexKeyPrefix = "user_sessions:"
)

// touchScript updates last-activity only when the session still
// exists, so a touch racing an eviction cannot resurrect the key.
var touchScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	redis.call("HSET", KEYS[1], "last_activity", ARGV[1])
	return 1
end
return 0
`)

// revokeScript sets the revoked flag only on an existing session.
var revokeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	redis.call("HSET", KEYS[1], "revoked", "1")
end
return 1
`)

// RedisStore implements Store on Redis. Each session is one hash whose
// key expires at the session's absolute expiry, so the store evicts
// dead records on its own. Touch and Revoke are single server-side
// operations, satisfying the interface's atomicity contract.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userIndexKey(userID string) string {
	return userIndexKeyPrefix + userID
}

// Create persists the session hash and indexes it by user, with both
// keys expiring at the session's absolute expiry.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	key := sessionKey(s.Token)
	userKey := userIndexKey(s.UserID.String())

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key,
		"user_id", s.UserID.String(),
		"created_at", strconv.FormatInt(s.CreatedAt.UnixNano(), 10),
		"last_activity", strconv.FormatInt(s.LastActivityAt.UnixNano(), 10),
		"expires_at", strconv.FormatInt(s.ExpiresAt.UnixNano(), 10),
		"revoked", "0",
	)
	pipe.ExpireAt(ctx, key, s.ExpiresAt)
	pipe.SAdd(ctx, userKey, s.Token)
	// The index outlives shorter sessions of the same user; extending
	// to the newest absolute expiry keeps it bounded.
	pipe.ExpireAt(ctx, userKey, s.ExpiresAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Get loads and decodes the session hash.
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	fields, err := r.client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, ErrSessionNotFound
	}

	s := &Session{
		Token:          token,
		UserID:         userID,
		CreatedAt:      nanoTime(fields["created_at"]),
		LastActivityAt: nanoTime(fields["last_activity"]),
		ExpiresAt:      nanoTime(fields["expires_at"]),
		Revoked:        fields["revoked"] == "1",
	}
	return s, nil
}

// Touch atomically overwrites last-activity.
func (r *RedisStore) Touch(ctx context.Context, token string, at time.Time) error {
	n, err := touchScript.Run(ctx, r.client, []string{sessionKey(token)},
		strconv.FormatInt(at.UnixNano(), 10)).Int()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Revoke atomically flags the session; missing sessions are ignored.
func (r *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := revokeScript.Run(ctx, r.client, []string{sessionKey(token)}).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the session record.
func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// RevokeByUser revokes every live session in the user's index.
func (r *RedisStore) RevokeByUser(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	for _, tok := range tokens {
		if err := r.Revoke(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

func nanoTime(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, n)
}
