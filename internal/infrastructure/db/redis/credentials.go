package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

// CredentialStore keeps bearer tokens in Redis, one string key per browser.
// Keys expire after ttl so abandoned sessions do not accumulate.
type CredentialStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCredentialStore wraps the given Redis client. A ttl of zero stores keys
// without expiry.
func NewCredentialStore(client *redis.Client, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, ttl: ttl}
}

func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCredentialNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credential get: %w", err)
	}
	return v, nil
}

func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("credential set: %w", err)
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("credential delete: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
