// Package redis implements the response cache on Redis for multi-instance
// deployments. Entries keep the same JSON shape as the file backend;
// expiry stays read-time so the max-age semantics match exactly.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reelforge/llmcore/internal/cache"
	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
)

const (
	keyPrefix     = "llm:cache:"
	scanBatchSize = 100
)

// Cache is a Redis-backed ResponseCache.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis response cache.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached response, or domain.ErrCacheMiss. An expired
// entry is deleted as a side effect of the lookup.
func (c *Cache) Get(
	ctx context.Context,
	prompt string,
	task domain.TaskType,
	params map[string]any,
	maxAge time.Duration,
) (string, error) {
	key := keyPrefix + cache.Key(prompt, task, params)
	logger := observability.FromContext(ctx)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("cache get failed: %w", err)
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("failed to decode cache entry",
			observability.String("cache_key", key),
			observability.Error(err))
		return "", domain.ErrCacheMiss
	}

	if entry.Expired(time.Now(), maxAge) {
		_ = c.client.Del(ctx, key).Err()
		return "", domain.ErrCacheMiss
	}

	return entry.Response, nil
}

// Set persists a response, overwriting any existing entry for the key.
func (c *Cache) Set(
	ctx context.Context,
	prompt string,
	task domain.TaskType,
	response string,
	params map[string]any,
) error {
	key := keyPrefix + cache.Key(prompt, task, params)
	entry := cache.NewEntry(prompt, task, response, params)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// ClearExpired removes every entry older than maxAge and returns the
// number removed.
func (c *Cache) ClearExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	now := time.Now()
	cleared := 0

	err := c.scan(ctx, func(key string) {
		data, getErr := c.client.Get(ctx, key).Bytes()
		if getErr != nil {
			return
		}

		var entry cache.Entry
		if json.Unmarshal(data, &entry) != nil {
			return
		}

		if entry.Expired(now, maxAge) {
			if c.client.Del(ctx, key).Err() == nil {
				cleared++
			}
		}
	})
	if err != nil {
		return cleared, err
	}

	return cleared, nil
}

// ClearAll empties the store and returns the number of entries removed.
func (c *Cache) ClearAll(ctx context.Context) (int, error) {
	cleared := 0

	err := c.scan(ctx, func(key string) {
		if c.client.Del(ctx, key).Err() == nil {
			cleared++
		}
	})
	if err != nil {
		return cleared, err
	}

	return cleared, nil
}

// Stats summarizes the store, skipping unreadable entries.
func (c *Cache) Stats(ctx context.Context) (*domain.CacheStats, error) {
	stats := &domain.CacheStats{}

	err := c.scan(ctx, func(key string) {
		data, getErr := c.client.Get(ctx, key).Bytes()
		if getErr != nil {
			return
		}

		stats.Entries++
		stats.TotalSizeBytes += int64(len(data))

		var entry cache.Entry
		if json.Unmarshal(data, &entry) != nil {
			return
		}

		cachedAt, timeErr := entry.Time()
		if timeErr != nil {
			return
		}

		if stats.OldestEntry.IsZero() || cachedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = cachedAt
		}
		if stats.NewestEntry.IsZero() || cachedAt.After(stats.NewestEntry) {
			stats.NewestEntry = cachedAt
		}
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (c *Cache) scan(ctx context.Context, visit func(key string)) error {
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("cache scan failed: %w", err)
		}

		for _, key := range keys {
			visit(key)
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
