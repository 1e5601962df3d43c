package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "blacklisted_token:"

// RedisRevocationStore denylists raw access tokens with a TTL equal to the
// token's remaining life, so no entry ever outlives the token it revokes.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates the access-token denylist adapter.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, accessToken string, remaining time.Duration) error {
	if remaining <= 0 {
		// Already unusable on expiry alone; an entry would be dead weight.
		return nil
	}
	return s.client.Set(ctx, revokedTokenKeyPrefix+accessToken, "1", remaining).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, accessToken string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenKeyPrefix+accessToken).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
