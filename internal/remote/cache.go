package remote

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/ats-matcher/internal/logger"
	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache defaults
const (
	DefaultCacheTTL  = time.Hour
	DefaultCacheSize = 50
	cacheKeyPrefix   = "kw:"
)

// Cache stores extraction results keyed by a content hash of the job description.
// Implementations must be safe for concurrent use; concurrent Sets of the same key
// are last-writer-wins.
type Cache interface {
	Get(ctx context.Context, key string) (*types.ExtractionResult, bool)
	Set(ctx context.Context, key string, result *types.ExtractionResult)
	Clear(ctx context.Context)
	Stats() CacheStats
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// CacheKey hashes the trimmed, lowercased job description.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return fmt.Sprintf("%s%x", cacheKeyPrefix, sum)
}

type cacheEntry struct {
	data     []byte
	storedAt time.Time
}

// MemoryCache is an in-process TTL cache that keeps the most recent maxEntries results.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache creates a cache. Non-positive arguments fall back to the defaults.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &MemoryCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached result when present and fresh.
func (c *MemoryCache) Get(_ context.Context, key string) (*types.ExtractionResult, bool) {
	data, ok := c.lookup(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	result, ok := decodeResult(data)
	if !ok {
		c.drop(key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return result, true
}

// Set stores result, evicting the oldest entries beyond the size cap.
func (c *MemoryCache) Set(_ context.Context, key string, result *types.ExtractionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.store(key, data)
}

// Clear drops every entry and resets the counters.
func (c *MemoryCache) Clear(context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns hit/miss counters and the live entry count.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}

func (c *MemoryCache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

func (c *MemoryCache) store(key string, data []byte) {
	c.storeAt(key, data, c.now())
}

func (c *MemoryCache) storeAt(key string, data []byte, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{data: data, storedAt: storedAt}
	c.evictLocked()
}

// l2StoredAt backdates an entry copied from Redis so that it expires from L1
// when it would have expired from Redis.
func l2StoredAt(now time.Time, ttl, remaining time.Duration) time.Time {
	if remaining >= ttl {
		return now
	}
	return now.Add(remaining - ttl)
}

func (c *MemoryCache) drop(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// evictLocked removes expired entries, then the oldest ones until the cap holds.
func (c *MemoryCache) evictLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	for len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldest time.Time
		first := true
		for k, e := range c.entries {
			if first || e.storedAt.Before(oldest) {
				oldestKey, oldest, first = k, e.storedAt, false
			}
		}
		delete(c.entries, oldestKey)
	}
}

// TieredCache layers a MemoryCache (L1) over an optional Redis instance (L2).
// L2 hits repopulate L1 for the entry's remaining Redis TTL. Redis failures
// are logged and otherwise ignored.
type TieredCache struct {
	l1  *MemoryCache
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTieredCache connects to redisURL when set. An empty, invalid, or unreachable URL
// leaves the cache running on L1 only.
func NewTieredCache(ctx context.Context, redisURL string, l1 *MemoryCache, log *zap.Logger) *TieredCache {
	log = logger.OrNop(log)
	if l1 == nil {
		l1 = NewMemoryCache(0, 0)
	}
	c := &TieredCache{l1: l1, ttl: l1.ttl, log: log}

	if redisURL == "" {
		return c
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("cache: invalid redis URL, L2 disabled", zap.Error(err))
		return c
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("cache: redis unreachable, L2 disabled", zap.Error(err))
		_ = rdb.Close()
		return c
	}
	c.rdb = rdb
	log.Info("cache: L2 redis connected", zap.String("addr", opts.Addr))
	return c
}

// HasL2 reports whether Redis is connected.
func (c *TieredCache) HasL2() bool {
	return c.rdb != nil
}

// Get tries L1, then L2.
func (c *TieredCache) Get(ctx context.Context, key string) (*types.ExtractionResult, bool) {
	if data, ok := c.l1.lookup(key); ok {
		if result, ok := decodeResult(data); ok {
			c.hits.Add(1)
			return result, true
		}
		c.l1.drop(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			if result, ok := decodeResult(data); ok {
				c.log.Debug("cache: L2 hit", zap.String("key", key))
				if remaining, err := c.rdb.TTL(ctx, key).Result(); err == nil && remaining > 0 {
					c.l1.storeAt(key, data, l2StoredAt(c.l1.now(), c.ttl, remaining))
				}
				c.hits.Add(1)
				return result, true
			}
		} else if err != redis.Nil {
			c.log.Warn("cache: L2 get failed", zap.Error(err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set writes through both tiers.
func (c *TieredCache) Set(ctx context.Context, key string, result *types.ExtractionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.l1.store(key, data)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn("cache: L2 set failed", zap.Error(err))
		}
	}
}

// Clear empties L1 and deletes every extraction key from L2.
func (c *TieredCache) Clear(ctx context.Context) {
	c.l1.Clear(ctx)
	c.hits.Store(0)
	c.misses.Store(0)
	if c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("cache: L2 delete failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache: L2 scan failed", zap.Error(err))
	}
}

// Stats reports tiered hit/miss counters and the L1 entry count.
func (c *TieredCache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.l1.Stats().Entries}
}

// Close releases the Redis connection.
func (c *TieredCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func decodeResult(data []byte) (*types.ExtractionResult, bool) {
	var result types.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}
