package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// draftTTL bounds how long an abandoned onboarding draft is kept.
const draftTTL = 30 * 24 * time.Hour

type draftStore struct {
	client redis.Cmdable
}

func NewDraftStore(client redis.Cmdable) domainRepo.DraftStore {
	return &draftStore{client: client}
}

// Get returns nil when the device has no draft.
func (s *draftStore) Get(ctx context.Context, deviceID string) (*entity.OnboardingDraft, error) {
	data, err := s.client.Get(ctx, deviceKey(deviceID, "onboarding_draft")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var draft entity.OnboardingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *draftStore) Save(ctx context.Context, deviceID string, draft *entity.OnboardingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, deviceKey(deviceID, "onboarding_draft"), data, draftTTL).Err()
}

func (s *draftStore) Delete(ctx context.Context, deviceID string) error {
	return s.client.Del(ctx, deviceKey(deviceID, "onboarding_draft")).Err()
}
