package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CacheRepository stores derived aggregates that are refreshed out-of-band.
// A missing value is not an error: readers must tolerate staleness and
// absence.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type dbCache struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) CacheRepository {
	return &dbCache{
		client: client,
	}
}

func (that *dbCache) Get(ctx context.Context, key string) (string, error) {
	value, err := that.client.Get(ctx, cacheKey(key)).Result()

	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to get cached value: %w", err)
	}

	return value, nil
}

func (that *dbCache) Set(ctx context.Context, key, value string) error {
	if err := that.client.Set(ctx, cacheKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set cached value: %w", err)
	}

	return nil
}
