package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	"github.com/redis/go-redis/v9"
	"sync"
	"time"
)

const benchmarksRedisKey = "marketingbot:benchmarks"

// MemoryBenchmarkCache keeps the last scraped benchmark table in process memory.
type MemoryBenchmarkCache struct {
	mu        sync.RWMutex
	data      models.Benchmarks
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryBenchmarkCache returns an empty in-memory cache.
func NewMemoryBenchmarkCache() *MemoryBenchmarkCache {
	return &MemoryBenchmarkCache{now: time.Now}
}

// Get returns the cached table and true while it is fresh.
func (c *MemoryBenchmarkCache) Get(_ context.Context) (models.Benchmarks, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return c.data, true, nil
}

// Set replaces the cached table, it stays fresh for ttl.
func (c *MemoryBenchmarkCache) Set(_ context.Context, data models.Benchmarks, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// RedisBenchmarkCache shares the scraped table between bot replicas through Redis.
type RedisBenchmarkCache struct {
	client redis.Cmdable
	key    string
}

// NewRedisBenchmarkCache wraps a go-redis client.
func NewRedisBenchmarkCache(client redis.Cmdable) *RedisBenchmarkCache {
	return &RedisBenchmarkCache{client: client, key: benchmarksRedisKey}
}

// Get reads the JSON encoded table. A missing key is a miss, not an error.
func (c *RedisBenchmarkCache) Get(ctx context.Context) (models.Benchmarks, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	var data models.Benchmarks
	if err = json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("decode cached benchmarks: %w", err)
	}
	return data, true, nil
}

// Set stores the table with ttl expiration.
func (c *RedisBenchmarkCache) Set(ctx context.Context, data models.Benchmarks, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode benchmarks: %w", err)
	}
	if err = c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}
