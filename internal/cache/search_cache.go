package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/geodata/internal/config"
	"go.uber.org/zap"
)

const (
	defaultSearchTTL = time.Minute
	searchKeyPrefix  = "geodata:search:"
)

// SearchCache stores encoded search responses by request key.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}

// SearchKey joins request parameters positionally, so empty parts still
// occupy their slot.
func SearchKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, strings.ReplaceAll(strings.TrimSpace(part), "|", `\|`))
	}
	return searchKeyPrefix + strings.Join(values, "|")
}

// NewSearchCache returns nil when caching is disabled.
func NewSearchCache(cfg config.Config, log *zap.Logger) (SearchCache, error) {
	cacheCfg := cfg.Cache
	if !cacheCfg.Enabled {
		return nil, nil
	}

	ttl := time.Duration(cacheCfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultSearchTTL
	}

	addr := strings.TrimSpace(cacheCfg.RedisAddr)
	if addr == "" {
		log.Info("search cache enabled", zap.String("backend", "memory"), zap.Duration("ttl", ttl))
		return NewMemorySearchCache(ttl), nil
	}
	if cacheCfg.RedisDB < 0 {
		return nil, errors.New("search cache redis db must not be negative")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cacheCfg.RedisPassword),
		DB:       cacheCfg.RedisDB,
	})
	log.Info("search cache enabled", zap.String("backend", "redis"), zap.String("addr", addr), zap.Duration("ttl", ttl))
	return NewRedisSearchCache(client, ttl, log), nil
}

type memorySearchCache struct {
	items *TTLCache[string, []byte]
	ttl   time.Duration
}

func NewMemorySearchCache(ttl time.Duration) SearchCache {
	return &memorySearchCache{items: NewTTLCache[string, []byte](), ttl: ttl}
}

func (c *memorySearchCache) Get(_ context.Context, key string) ([]byte, bool) {
	return c.items.Get(key)
}

func (c *memorySearchCache) Set(_ context.Context, key string, payload []byte) {
	c.items.Set(key, payload, c.ttl)
}

type redisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration, log *zap.Logger) SearchCache {
	return &redisSearchCache{client: client, ttl: ttl, log: log.Named("search.cache")}
}

// Get treats any redis failure as a miss.
func (c *redisSearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("search cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

func (c *redisSearchCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("search cache write failed", zap.Error(err))
	}
}
