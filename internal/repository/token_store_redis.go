package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "health-concierge/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

type tokenStore struct {
	client redis.Cmdable
}

func NewTokenStore(client redis.Cmdable) domainRepo.TokenStore {
	return &tokenStore{client: client}
}

func accessTokenKey(subject, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", subject, tokenID)
}

func (s *tokenStore) Store(ctx context.Context, subject, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, accessTokenKey(subject, tokenID), "valid", ttl).Err()
}

func (s *tokenStore) Exists(ctx context.Context, subject, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, accessTokenKey(subject, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeAll deletes every access token issued to subject.
func (s *tokenStore) RevokeAll(ctx context.Context, subject string) error {
	keys, err := s.client.Keys(ctx, accessTokenKey(subject, "*")).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
