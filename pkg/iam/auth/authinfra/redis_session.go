package authinfra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/auth"
	"github.com/texamhq/texam/pkg/kernel"
)

// RedisSessionStore implements auth.SessionStore on Redis. Each session is
// one key `refresh:<token>` holding `<user_id>:<email>` with a server-side
// TTL; expiry needs no sweeper.
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore creates a new store instance.
func NewRedisSessionStore(rdb *redis.Client) auth.SessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func sessionKey(refreshToken string) string {
	return "refresh:" + refreshToken
}

// Save records the refresh-token → identity mapping with the given TTL.
func (s *RedisSessionStore) Save(ctx context.Context, refreshToken string, userID kernel.UserID, email string, ttl time.Duration) error {
	value := fmt.Sprintf("%s:%s", userID.String(), email)
	if err := s.rdb.SetEx(ctx, sessionKey(refreshToken), value, ttl).Err(); err != nil {
		return errx.Wrap(err, "failed to save refresh session", errx.TypeInternal)
	}
	return nil
}

// Lookup resolves the stored identity. An absent key, whether expired or
// never written, is the same invalid-refresh-token outcome.
func (s *RedisSessionStore) Lookup(ctx context.Context, refreshToken string) (kernel.UserID, string, error) {
	value, err := s.rdb.Get(ctx, sessionKey(refreshToken)).Result()
	if err == redis.Nil {
		return "", "", auth.ErrInvalidRefreshToken()
	}
	if err != nil {
		return "", "", errx.Wrap(err, "failed to look up refresh session", errx.TypeInternal)
	}

	// Value layout is "<user_id>:<email>". Emails can contain colons in
	// theory, so only the first separator counts.
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", auth.ErrInvalidRefreshToken().WithCause(fmt.Errorf("corrupt session value"))
	}
	return kernel.NewUserID(parts[0]), parts[1], nil
}

// Delete removes the session. Redis DEL on an absent key is a no-op, which
// makes logout idempotent for free.
func (s *RedisSessionStore) Delete(ctx context.Context, refreshToken string) error {
	if err := s.rdb.Del(ctx, sessionKey(refreshToken)).Err(); err != nil {
		return errx.Wrap(err, "failed to delete refresh session", errx.TypeInternal)
	}
	return nil
}
