package testutil

import (
	"context"
	"sync"
	"time"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
)

// MemoryStores backs the per-device Redis stores with maps. Tests may read
// the maps directly.
type MemoryStores struct {
	mu            sync.Mutex
	DeviceEntries map[string]*entity.DeviceIdentifiers
	DraftEntries  map[string]*entity.OnboardingDraft
	TokenEntries  map[string]map[string]bool
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		DeviceEntries: map[string]*entity.DeviceIdentifiers{},
		DraftEntries:  map[string]*entity.OnboardingDraft{},
		TokenEntries:  map[string]map[string]bool{},
	}
}

func (m *MemoryStores) Devices() repository.DeviceStore { return memoryDeviceStore{m} }
func (m *MemoryStores) Drafts() repository.DraftStore   { return memoryDraftStore{m} }
func (m *MemoryStores) Tokens() repository.TokenStore   { return memoryTokenStore{m} }

type memoryDeviceStore struct{ *MemoryStores }

func (s memoryDeviceStore) Load(_ context.Context, deviceID string) (*entity.DeviceIdentifiers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids, ok := s.DeviceEntries[deviceID]; ok {
		cp := *ids
		return &cp, nil
	}
	return &entity.DeviceIdentifiers{Role: entity.RoleNone}, nil
}

func (s memoryDeviceStore) Save(_ context.Context, deviceID string, ids *entity.DeviceIdentifiers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ids
	s.DeviceEntries[deviceID] = &cp
	return nil
}

func (s memoryDeviceStore) Clear(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.DeviceEntries, deviceID)
	return nil
}

type memoryDraftStore struct{ *MemoryStores }

func (s memoryDraftStore) Get(_ context.Context, deviceID string) (*entity.OnboardingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.DraftEntries[deviceID]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (s memoryDraftStore) Save(_ context.Context, deviceID string, draft *entity.OnboardingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *draft
	s.DraftEntries[deviceID] = &cp
	return nil
}

func (s memoryDraftStore) Delete(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.DraftEntries, deviceID)
	return nil
}

type memoryTokenStore struct{ *MemoryStores }

func (s memoryTokenStore) Store(_ context.Context, subject, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TokenEntries[subject] == nil {
		s.TokenEntries[subject] = map[string]bool{}
	}
	s.TokenEntries[subject][tokenID] = true
	return nil
}

func (s memoryTokenStore) Exists(_ context.Context, subject, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TokenEntries[subject][tokenID], nil
}

func (s memoryTokenStore) RevokeAll(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.TokenEntries, subject)
	return nil
}
