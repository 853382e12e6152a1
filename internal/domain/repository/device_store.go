package repository

import (
	"context"
	"time"

	"health-concierge/internal/domain/entity"
)

// DeviceStore keeps the identifiers a device needs to rehydrate its session.
type DeviceStore interface {
	Load(ctx context.Context, deviceID string) (*entity.DeviceIdentifiers, error)
	Save(ctx context.Context, deviceID string, ids *entity.DeviceIdentifiers) error
	Clear(ctx context.Context, deviceID string) error
}

// DraftStore keeps in-progress onboarding drafts per device.
type DraftStore interface {
	Get(ctx context.Context, deviceID string) (*entity.OnboardingDraft, error)
	Save(ctx context.Context, deviceID string, draft *entity.OnboardingDraft) error
	Delete(ctx context.Context, deviceID string) error
}

// OpenRequestCache holds the last aggregated open-requests listing.
type OpenRequestCache interface {
	Get(ctx context.Context) ([]entity.OpenRequest, bool, error)
	Set(ctx context.Context, items []entity.OpenRequest, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// TokenStore tracks issued access tokens so they can be revoked.
type TokenStore interface {
	Store(ctx context.Context, subject, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, subject, tokenID string) (bool, error)
	RevokeAll(ctx context.Context, subject string) error
}
