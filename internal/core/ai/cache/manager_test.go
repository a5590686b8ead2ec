package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"kitchen-companion/internal/infrastructure/config"
	"kitchen-companion/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func cacheConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Minute,
		},
	}
}

func TestCacheSetAndGet(t *testing.T) {
	m := NewManager(cacheConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "cookie conversation", "cookie reply"))

	got, err := m.Get(ctx, "cookie conversation")
	require.NoError(t, err)
	assert.Equal(t, "cookie reply", got)
}

func TestCacheMiss(t *testing.T) {
	m := NewManager(cacheConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	_, err := m.Get(context.Background(), "never stored")
	assert.Error(t, err)
}

func TestCacheExpiry(t *testing.T) {
	m := NewManager(cacheConfig(10, 10*time.Millisecond))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "short lived", "value"))

	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "short lived")
	assert.Error(t, err)
}

func TestCacheLRUEviction(t *testing.T) {
	m := NewManager(cacheConfig(2, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))

	// Touch "a" so "b" becomes the eviction candidate.
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "b")
	assert.Error(t, err)
}

func TestCacheDisabled(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Enabled: false}}
	assert.Nil(t, NewManager(cfg))
}

func TestCacheStats(t *testing.T) {
	m := NewManager(cacheConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", "1"))
	_, _ = m.Get(ctx, "a")
	_, _ = m.Get(ctx, "missing")

	stats := m.GetStats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestCacheCloseNil(t *testing.T) {
	var m *CacheManager
	assert.NoError(t, m.Close())
}

func TestCacheCloseStopsCleanup(t *testing.T) {
	m := NewManager(cacheConfig(10, time.Minute))
	require.NotNil(t, m)

	require.NoError(t, m.Close())

	select {
	case <-m.done:
	default:
		t.Fatal("cleanup stop channel still open after Close")
	}

	// Close is idempotent.
	assert.NoError(t, m.Close())
}

func TestCacheKeysAreIsolated(t *testing.T) {
	m := NewManager(cacheConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("conversation %d", i), fmt.Sprintf("reply %d", i)))
	}
	for i := 0; i < 5; i++ {
		got, err := m.Get(ctx, fmt.Sprintf("conversation %d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("reply %d", i), got)
	}
}
