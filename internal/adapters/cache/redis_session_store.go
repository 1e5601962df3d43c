package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	refreshTokenKeyPrefix  = "refresh_token:"
	identityTokenKeyPrefix = "user_refresh_token:"
)

// RedisSessionStore keeps refresh tokens in Redis: a forward mapping from
// token to identity key and a reverse index from identity key to its single
// current token. All operations are single-key atomic; rotation's two writes
// are individually idempotent and the stale forward mapping is deleted last
// to bound the window where both tokens resolve.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates the refresh-token store adapter.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Rotate(ctx context.Context, identityKey string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	previous, err := s.client.Get(ctx, identityTokenKeyPrefix+identityKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, refreshTokenKeyPrefix+token, identityKey, ttl)
		p.Set(ctx, identityTokenKeyPrefix+identityKey, token, ttl)
		return nil
	})
	if err != nil {
		return "", err
	}

	// Removing the old forward mapping is what actually invalidates the
	// previous refresh token; its TTL would otherwise keep it resolvable.
	if previous != "" && previous != token {
		if err := s.client.Del(ctx, refreshTokenKeyPrefix+previous).Err(); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, refreshToken string) (string, error) {
	identityKey, err := s.client.Get(ctx, refreshTokenKeyPrefix+refreshToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return identityKey, nil
}

func (s *RedisSessionStore) RevokeByIdentity(ctx context.Context, identityKey string) error {
	token, err := s.client.Get(ctx, identityTokenKeyPrefix+identityKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return s.client.Del(ctx, refreshTokenKeyPrefix+token, identityTokenKeyPrefix+identityKey).Err()
}
