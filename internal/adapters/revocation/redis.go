package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paysecure/internal/pkg/password"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps revocations in Redis with a TTL equal to the token's
// remaining lifetime, so entries expire on their own and are visible to
// every instance.
type RedisStore struct {
	client   redis.UniversalClient
	audience string
}

// NewRedisStore creates a store for one audience
func NewRedisStore(client redis.UniversalClient, audience string) *RedisStore {
	return &RedisStore{client: client, audience: audience}
}

// Revoke records token until expiresAt
func (s *RedisStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether the revocation key exists
func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("redis lookup: %w", err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(token string) string {
	return fmt.Sprintf("revoked:%s:%s", s.audience, password.HashToken(token))
}
