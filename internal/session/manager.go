package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Manager hands out one State per device, rehydrating on first use. Idle
// states expire after the configured ttl and are rebuilt from the store.
type Manager struct {
	svc    *Services
	states *cache.Cache
	group  singleflight.Group
}

func NewManager(svc *Services, ttl time.Duration) *Manager {
	cleanup := 10 * time.Minute
	if ttl > 0 {
		cleanup = ttl * 2
	}
	return &Manager{
		svc:    svc,
		states: cache.New(ttl, cleanup),
	}
}

// Get returns the device's state. Concurrent first requests for the same
// device share one rehydration, which outlives the cancellation of the
// request that started it.
func (m *Manager) Get(ctx context.Context, deviceID string) (*State, error) {
	if v, ok := m.states.Get(deviceID); ok {
		return v.(*State), nil
	}

	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := m.group.Do(deviceID, func() (interface{}, error) {
		if v, ok := m.states.Get(deviceID); ok {
			return v, nil
		}
		st := NewState(deviceID, m.svc)
		if err := st.Rehydrate(flightCtx); err != nil {
			return nil, err
		}
		m.states.SetDefault(deviceID, st)
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*State), nil
}

// Forget drops the cached state; the next Get rehydrates it.
func (m *Manager) Forget(deviceID string) {
	m.states.Delete(deviceID)
}
