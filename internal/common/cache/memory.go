// internal/common/cache/memory.go
package cache

import (
	"context"
	"fmt"
	"time"

	"fairpay/internal/common/config"

	lru "github.com/hashicorp/golang-lru"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is a size-bounded in-process LRU. A zero ttl keeps entries until evicted.
type MemoryCache struct {
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time
}

func NewMemoryCache(size int, ttl time.Duration) (*MemoryCache, error) {
	l, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}
	return &MemoryCache{lru: l, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryCache) Name() string { return config.CacheDriverMemory }

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	entry := v.(memoryEntry)
	if !entry.expires.IsZero() && !c.now().Before(entry.expires) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		entry.expires = c.now().Add(c.ttl)
	}
	c.lru.Add(key, entry)
	return nil
}

// Len reports the number of entries held, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
