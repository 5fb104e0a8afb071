// Package file implements the file-backed response cache: one JSON file
// per key. Writes go through a temp file and rename so concurrent readers
// never observe a half-written entry; read-compute-write is not
// transactional and last write wins.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/reelforge/llmcore/internal/cache"
	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
)

const entryFilePerm = 0o644

// Cache is a file-backed ResponseCache.
type Cache struct {
	dir string
}

// New creates the cache directory if needed and returns the cache.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
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
	key := cache.Key(prompt, task, params)
	path := c.path(key)
	logger := observability.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrCacheMiss
		}
		logger.Warn("failed to read cache entry",
			observability.String("cache_key", key),
			observability.Error(err))
		return "", domain.ErrCacheMiss
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("failed to decode cache entry",
			observability.String("cache_key", key),
			observability.Error(err))
		return "", domain.ErrCacheMiss
	}

	if entry.Expired(time.Now(), maxAge) {
		logger.Debug("cache entry expired",
			observability.String("cache_key", key))
		_ = os.Remove(path)
		return "", domain.ErrCacheMiss
	}

	logger.Debug("cache hit", observability.String("cache_key", key))
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
	key := cache.Key(prompt, task, params)
	entry := cache.NewEntry(prompt, task, response, params)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	// Temp file plus rename keeps the replace atomic for readers.
	tmp, err := os.CreateTemp(c.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	_ = os.Chmod(tmp.Name(), entryFilePerm)

	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	observability.FromContext(ctx).Debug("cached response",
		observability.String("cache_key", key))
	return nil
}

// ClearExpired removes every entry older than maxAge and returns the
// number removed.
func (c *Cache) ClearExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	logger := observability.FromContext(ctx)
	now := time.Now()
	cleared := 0

	for _, path := range c.entryPaths() {
		entry, err := readEntry(path)
		if err != nil {
			logger.Warn("failed to read cache entry during sweep",
				observability.String("path", path),
				observability.Error(err))
			continue
		}

		if entry.Expired(now, maxAge) {
			if err := os.Remove(path); err == nil {
				cleared++
			}
		}
	}

	if cleared > 0 {
		logger.Info("cleared expired cache entries",
			observability.Int("count", cleared))
	}

	return cleared, nil
}

// ClearAll empties the store and returns the number of entries removed.
func (c *Cache) ClearAll(ctx context.Context) (int, error) {
	cleared := 0

	for _, path := range c.entryPaths() {
		if err := os.Remove(path); err == nil {
			cleared++
		}
	}

	observability.FromContext(ctx).Info("cleared all cache entries",
		observability.Int("count", cleared))
	return cleared, nil
}

// Stats summarizes the store, skipping unreadable entries.
func (c *Cache) Stats(_ context.Context) (*domain.CacheStats, error) {
	stats := &domain.CacheStats{}

	for _, path := range c.entryPaths() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		stats.Entries++
		stats.TotalSizeBytes += info.Size()

		entry, err := readEntry(path)
		if err != nil {
			continue
		}

		cachedAt, err := entry.Time()
		if err != nil {
			continue
		}

		if stats.OldestEntry.IsZero() || cachedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = cachedAt
		}
		if stats.NewestEntry.IsZero() || cachedAt.After(stats.NewestEntry) {
			stats.NewestEntry = cachedAt
		}
	}

	return stats, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) entryPaths() []string {
	paths, _ := filepath.Glob(filepath.Join(c.dir, "*.json"))
	return paths
}

func readEntry(path string) (cache.Entry, error) {
	var entry cache.Entry

	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("invalid cache entry %s: %w", filepath.Base(path), err)
	}

	return entry, nil
}
