package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// OpenRequestsLoader fetches and aggregates the open listing from the store.
type OpenRequestsLoader func(ctx context.Context) ([]entity.OpenRequest, error)

// OpenRequestsSync keeps the cached open-requests listing in line with the
// store. Rebuilds are serialised so concurrent misses run one load. A rebuild
// that overlaps an invalidation is served but never cached.
//
// Cache failures never fail a read: the listing is served from the store and
// the failure is logged.
type OpenRequestsSync struct {
	cache repository.OpenRequestCache
	ttl   time.Duration
	log   *logrus.Logger

	mu sync.Mutex
	// generation counts invalidations.
	generation atomic.Uint64
}

func NewOpenRequestsSync(cache repository.OpenRequestCache, ttl time.Duration, log *logrus.Logger) *OpenRequestsSync {
	return &OpenRequestsSync{
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Enabled reports whether a positive ttl was configured.
func (s *OpenRequestsSync) Enabled() bool {
	return s != nil && s.cache != nil && s.ttl > 0
}

// Get returns the cached listing, loading and storing it on a miss.
func (s *OpenRequestsSync) Get(ctx context.Context, load OpenRequestsLoader) ([]entity.OpenRequest, error) {
	if !s.Enabled() {
		return load(ctx)
	}

	if items, ok := s.lookup(ctx); ok {
		return items, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have rebuilt while we waited.
	if items, ok := s.lookup(ctx); ok {
		return items, nil
	}

	gen := s.generation.Load()
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, gen, items); err != nil {
		s.log.Warnf("Failed to cache open requests: %+v", err)
	}
	return items, nil
}

// store caches items loaded at generation gen. A listing that an
// invalidation overtook is dropped, including when the invalidation lands
// between the check and the write.
func (s *OpenRequestsSync) store(ctx context.Context, gen uint64, items []entity.OpenRequest) error {
	if s.generation.Load() != gen {
		return nil
	}
	if err := s.cache.Set(ctx, items, s.ttl); err != nil {
		return err
	}
	if s.generation.Load() != gen {
		return s.cache.Invalidate(ctx)
	}
	return nil
}

// Invalidate drops the cached listing after a submission or transition.
func (s *OpenRequestsSync) Invalidate(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.generation.Add(1)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warnf("Failed to invalidate open requests cache: %+v", err)
	}
}

// SyncOnStartup warms the cache before traffic is accepted.
func (s *OpenRequestsSync) SyncOnStartup(ctx context.Context, load OpenRequestsLoader) error {
	if !s.Enabled() {
		return nil
	}
	startTime := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.generation.Load()
	items, err := load(ctx)
	if err != nil {
		return err
	}
	if err := s.store(ctx, gen, items); err != nil {
		return err
	}
	s.log.Infof("Open requests cache warmed: %d requests in %v", len(items), time.Since(startTime))
	return nil
}

func (s *OpenRequestsSync) lookup(ctx context.Context) ([]entity.OpenRequest, bool) {
	items, hit, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warnf("Failed to read open requests cache: %+v", err)
		return nil, false
	}
	return items, hit
}
