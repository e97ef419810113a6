package cache

import "time"

// Option configures a TTL cache.
type Option func(*Config)

// Config holds cache settings.
type Config struct {
	MaxSize    int
	DefaultTTL time.Duration
}

// WithMaxSize sets the entry cap before LRU eviction kicks in.
func WithMaxSize(size int) Option {
	return func(c *Config) {
		c.MaxSize = size
	}
}

// WithDefaultTTL sets the per-entry lifetime; zero disables expiration.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.DefaultTTL = ttl
	}
}
