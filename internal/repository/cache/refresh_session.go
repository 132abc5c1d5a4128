package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "canteen:refresh:"

type cmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RefreshSessionStore keeps one key per live refresh token id. A refresh
// token is usable only while its key exists.
type RefreshSessionStore struct {
	client cmdable
}

func NewRefreshSessionStore(client cmdable) *RefreshSessionStore {
	return &RefreshSessionStore{
		client: client,
	}
}

func (s *RefreshSessionStore) Save(ctx context.Context, jti string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+jti, userID, ttl).Err(); err != nil {
		return fmt.Errorf("client.Set -> %w", err)
	}

	return nil
}

// Consume deletes the session and reports whether it existed for userID.
// A second call for the same jti always reports false.
func (s *RefreshSessionStore) Consume(ctx context.Context, jti string, userID uint) (bool, error) {
	val, err := s.client.GetDel(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("client.GetDel -> %w", err)
	}

	stored, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return false, nil
	}

	return uint(stored) == userID, nil
}
