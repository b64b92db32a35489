// Package ratelimit throttles requests per key, either with in-process token
// buckets or with a fixed window counter kept in Redis.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(key string) bool
}

// DefaultIdleTTL is how long a key's bucket is kept after its last request.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter gives every key its own independent bucket. Buckets idle for
// longer than the idle TTL are dropped.
type KeyedLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type Option func(*KeyedLimiter)

func WithIdleTTL(ttl time.Duration) Option {
	return func(l *KeyedLimiter) { l.idleTTL = ttl }
}

// WithClock replaces time.Now for idle tracking. Token refill still uses the
// rate package's own clock.
func WithClock(now func() time.Time) Option {
	return func(l *KeyedLimiter) { l.now = now }
}

func New(rps float64, burst int, opts ...Option) *KeyedLimiter {
	l := &KeyedLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  DefaultIdleTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastSweep = l.now()
	return l
}

func (l *KeyedLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// Len reports how many keys currently hold a bucket.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *KeyedLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *KeyedLimiter) sweep(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) >= l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
