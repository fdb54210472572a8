package cache

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/geodata/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTTLCache_Expires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int]()
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestTTLCache_IgnoresNonPositiveTTL(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_SweepsOnSet(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache[int, int]()
	c.now = func() time.Time { return now }
	c.sweepEvery = 2

	c.Set(1, 1, time.Second)
	c.Set(2, 2, time.Second)
	now = now.Add(2 * time.Second)
	c.Set(3, 3, time.Second)

	assert.Equal(t, 1, c.Len())
}

func TestSearchKey_Positional(t *testing.T) {
	assert.NotEqual(t, SearchKey("en", "", "bog"), SearchKey("en", "bog", ""))
	assert.NotEqual(t, SearchKey("a|b", "c"), SearchKey("a", "b|c"))
	assert.Equal(t, SearchKey("en", " bog "), SearchKey("en", "bog"))
}

func TestNewSearchCache_Disabled(t *testing.T) {
	c, err := NewSearchCache(config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewSearchCache_Memory(t *testing.T) {
	c, err := NewSearchCache(config.Config{Cache: config.CacheConfig{Enabled: true, TTLSeconds: 30}}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, c)

	ctx := context.Background()
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte(`[]`))
	payload, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `[]`, string(payload))
}

func TestRedisSearchCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisSearchCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	key := SearchKey(t.Name())
	t.Cleanup(func() { client.Del(ctx, key) })

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte(`[{"code":"BOG"}]`))
	payload, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `[{"code":"BOG"}]`, string(payload))
}
