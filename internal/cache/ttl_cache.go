package cache

import (
	"sync"
	"time"
)

// Cache is a keyed store whose entries expire.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is an in-memory Cache. Expired entries are dropped lazily on read
// and during Set once the map grows past sweepEvery entries.
type TTLCache[K comparable, V any] struct {
	mu         sync.Mutex
	items      map[K]ttlEntry[V]
	now        func() time.Time
	sweepEvery int
}

func NewTTLCache[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{
		items:      make(map[K]ttlEntry[V]),
		now:        time.Now,
		sweepEvery: 1024,
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return entry.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.items) >= c.sweepEvery {
		for k, entry := range c.items {
			if !now.Before(entry.expiresAt) {
				delete(c.items, k)
			}
		}
	}
	c.items[key] = ttlEntry[V]{value: value, expiresAt: now.Add(ttl)}
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len counts entries, expired ones included.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
