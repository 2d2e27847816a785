package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked_token:"

// RedisStore is the Redis-backed revocation store. Entries carry a TTL equal
// to the remaining token lifetime, so the set never needs explicit cleanup and
// revocations are shared across all API processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed revocation store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to record
		return nil
	}
	return s.client.Set(ctx, keyPrefix+jti, "1", ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
