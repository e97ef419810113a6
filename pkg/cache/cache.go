package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

type item[V any] struct {
	value    V
	expireAt time.Time
	access   time.Time
}

// TTL is an in-memory cache with per-entry expiration and LRU eviction once
// the size cap is reached.
type TTL[V any] struct {
	mu      sync.RWMutex
	data    map[string]*item[V]
	maxSize int
	ttl     time.Duration
}

// NewTTL creates a cache. Non-positive maxSize defaults to 1000; a
// non-positive ttl means entries never expire.
func NewTTL[V any](opts ...Option) *TTL[V] {
	cfg := &Config{MaxSize: 1000}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1000
	}
	return &TTL[V]{
		data:    make(map[string]*item[V]),
		maxSize: cfg.MaxSize,
		ttl:     cfg.DefaultTTL,
	}
}

// Set stores value under key.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) >= c.maxSize {
		if _, exists := c.data[key]; !exists {
			c.evictLRU()
		}
	}
	now := time.Now()
	it := &item[V]{value: value, access: now}
	if c.ttl > 0 {
		it.expireAt = now.Add(c.ttl)
	}
	c.data[key] = it
}

// Get fetches value by key, refreshing its recency.
func (c *TTL[V]) Get(key string) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	it, ok := c.data[key]
	if !ok {
		return zero, ErrMiss
	}
	if !it.expireAt.IsZero() && time.Now().After(it.expireAt) {
		delete(c.data, key)
		return zero, ErrMiss
	}
	it.access = time.Now()
	return it.value, nil
}

// Len reports the number of live entries.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *TTL[V]) evictLRU() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, it := range c.data {
		if first || it.access.Before(oldest) {
			oldest = it.access
			oldestKey = k
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}
