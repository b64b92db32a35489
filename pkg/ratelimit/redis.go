package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter allows limit requests per key in each fixed window. The
// counters live in Redis so every replica shares them. When Redis cannot be
// reached requests are refused.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

type RedisOption func(*RedisLimiter)

// WithRedisClock replaces time.Now when picking the window.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(l *RedisLimiter) { l.now = now }
}

func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration, opts ...RedisOption) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("redis limiter needs a client")
	}
	if limit <= 0 || window < time.Millisecond {
		return nil, errors.New("redis limiter needs a positive limit and window")
	}
	if prefix == "" {
		prefix = "textbooks:ratelimit"
	}
	l := &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *RedisLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}
	windowMs := l.window.Milliseconds()
	slot := l.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return false
	}
	return count <= int64(l.limit)
}
