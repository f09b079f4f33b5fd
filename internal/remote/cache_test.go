package remote

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(term string) *types.ExtractionResult {
	return &types.ExtractionResult{
		HardSkills: []types.Keyword{{Term: term, Category: types.CategoryHard, Importance: 80}},
		SoftSkills: []types.Keyword{},
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("Senior Go Engineer"), CacheKey("  senior go engineer \n"))
	assert.NotEqual(t, CacheKey("Senior Go Engineer"), CacheKey("Senior Rust Engineer"))
	assert.Regexp(t, `^kw:[0-9a-f]{64}$`, CacheKey("anything"))
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour, 10)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", sampleResult("Go"))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Go", got.HardSkills[0].Term)

	got.HardSkills[0].Term = "mutated"
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, "Go", again.HardSkills[0].Term, "cached value must not alias returned value")

	assert.Equal(t, CacheStats{Hits: 2, Misses: 1, Entries: 1}, c.Stats())
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour, 10)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", sampleResult("Go"))

	now = now.Add(59 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestL2StoredAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		remaining time.Duration
		want      time.Time
	}{
		{"fresh entry", time.Hour, now},
		{"longer than ttl", 2 * time.Hour, now},
		{"nearly expired", time.Minute, now.Add(-59 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l2StoredAt(now, time.Hour, tt.remaining))
		})
	}
}

func TestMemoryCache_PromotedEntryKeepsRemainingTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour, 10)
	c.now = func() time.Time { return now }

	c.storeAt("k", []byte(`{"hardSkills":[],"softSkills":[]}`), l2StoredAt(now, time.Hour, 2*time.Minute))

	now = now.Add(time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry must not outlive its Redis expiry")
}

func TestMemoryCache_KeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour, 3)
	c.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		c.Set(ctx, fmt.Sprintf("k%d", i), sampleResult(fmt.Sprintf("T%d", i)))
	}

	assert.Equal(t, 3, c.Stats().Entries)
	for _, key := range []string{"k0", "k1"} {
		_, ok := c.Get(ctx, key)
		assert.False(t, ok, key)
	}
	for _, key := range []string{"k2", "k3", "k4"} {
		_, ok := c.Get(ctx, key)
		assert.True(t, ok, key)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)
	c.Set(ctx, "k", sampleResult("Go"))
	c.Get(ctx, "k")

	c.Clear(ctx)
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestMemoryCache_ConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour, DefaultCacheSize)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(ctx, "same", sampleResult(fmt.Sprintf("T%d", i)))
			c.Get(ctx, "same")
		}(i)
	}
	wg.Wait()

	got, ok := c.Get(ctx, "same")
	require.True(t, ok)
	assert.Regexp(t, `^T\d+$`, got.HardSkills[0].Term)
}

func TestTieredCache_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	c := NewTieredCache(ctx, "", nil, nil)
	assert.False(t, c.HasL2())

	c.Set(ctx, "k", sampleResult("Go"))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Go", got.HardSkills[0].Term)

	_, ok = c.Get(ctx, "other")
	assert.False(t, ok)
	assert.Equal(t, CacheStats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())

	c.Clear(ctx)
	assert.Equal(t, CacheStats{}, c.Stats())
	assert.NoError(t, c.Close())
}

func TestTieredCache_UnreachableRedis(t *testing.T) {
	ctx := context.Background()
	c := NewTieredCache(ctx, "redis://127.0.0.1:1/0", NewMemoryCache(time.Minute, 5), nil)
	assert.False(t, c.HasL2())

	c.Set(ctx, "k", sampleResult("Go"))
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestTieredCache_InvalidRedisURL(t *testing.T) {
	c := NewTieredCache(context.Background(), "not a url", nil, nil)
	assert.False(t, c.HasL2())
}
