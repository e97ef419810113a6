package ratelimit

import (
	"sync"
	"time"

	"RankGuard/pkg/clock"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a keyed token bucket used to pace calls against upstream
// ranking providers between batch waves.
type Limiter struct {
	mu  sync.Mutex
	m   map[string]*bucket
	clk clock.Clock
}

// New creates a limiter reading time from clk.
func New(clk clock.Clock) *Limiter {
	return &Limiter{m: make(map[string]*bucket), clk: clk}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.refill(key, capacity, refillPerSec)
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Reserve consumes one token and returns how long the caller should wait
// before proceeding. Zero means the token was immediately available.
func (l *Limiter) Reserve(key string, capacity, refillPerSec float64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.refill(key, capacity, refillPerSec)
	if b.tokens >= 1 {
		b.tokens--
		return 0
	}
	deficit := 1 - b.tokens
	b.tokens--
	if b.refillRate <= 0 {
		return 0
	}
	return time.Duration(deficit / b.refillRate * float64(time.Second))
}

func (l *Limiter) refill(key string, capacity, refillPerSec float64) *bucket {
	now := l.clk.Now()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
		return b
	}
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	return b
}
