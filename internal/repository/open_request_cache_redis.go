package repository

import (
	"context"
	"errors"
	"time"

	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const openRequestsKey = "open_requests:summary"

// openRequestCache stores the aggregated listing as request summary records.
type openRequestCache struct {
	client redis.Cmdable
	mapper *converter.Mapper
}

func NewOpenRequestCache(client redis.Cmdable, mapper *converter.Mapper) domainRepo.OpenRequestCache {
	return &openRequestCache{client: client, mapper: mapper}
}

func (c *openRequestCache) Get(ctx context.Context) ([]entity.OpenRequest, bool, error) {
	data, err := c.client.Get(ctx, openRequestsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	recs, err := converter.UnmarshalRecords(data)
	if err != nil {
		return nil, false, err
	}
	items, err := c.mapper.OpenRequestsFromRecords(recs)
	if err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// Set is a no-op for a non-positive ttl.
func (c *openRequestCache) Set(ctx context.Context, items []entity.OpenRequest, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := converter.MarshalRecords(converter.OpenRequestsToRecords(items))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, openRequestsKey, data, ttl).Err()
}

func (c *openRequestCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, openRequestsKey).Err()
}
