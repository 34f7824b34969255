// Package ratelimit provides per-client rate limiting using token buckets.
// Generation endpoints fan out into many upstream model calls, so their
// limits are much stricter than plain reads.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket refilled continuously at a steady rate.
type bucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() (bool, Info) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now

	allowed := b.tokens >= 1.0
	if allowed {
		b.tokens -= 1.0
	}

	info := Info{
		Allowed:   allowed,
		Limit:     b.capacity,
		Remaining: int(b.tokens),
	}
	if !allowed {
		// Seconds until one token is available.
		info.RetryAfter = time.Duration((1.0 - b.tokens) / b.refillRate * float64(time.Second))
	}
	return allowed, info
}

// Info describes the outcome of a rate limit check.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter manages one bucket per client and tier.
type Limiter struct {
	config     *Config
	buckets    map[string]*bucket
	lastAccess map[string]time.Time
	mu         sync.Mutex

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Limiter{
		config:     config,
		buckets:    make(map[string]*bucket),
		lastAccess: make(map[string]time.Time),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow checks whether a request from clientID against the given tier is
// allowed, consuming a token when it is.
func (l *Limiter) Allow(clientID string, tier Tier) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	limit := l.config.limitFor(tier)
	if limit.PerMinute <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + string(tier)
	b := l.getBucket(key, limit)

	l.mu.Lock()
	l.lastAccess[key] = time.Now()
	l.mu.Unlock()

	return b.allow()
}

func (l *Limiter) getBucket(key string, limit TierLimit) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	burst := limit.Burst
	if burst <= 0 {
		burst = limit.PerMinute
	}
	b := newBucket(burst, float64(limit.PerMinute)/60.0)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.dropStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// dropStale removes buckets idle for over an hour.
func (l *Limiter) dropStale() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
