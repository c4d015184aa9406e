// Package ratelimit counts requests per client in fixed windows. The Redis
// limiter shares counters across instances; the memory limiter is the
// single-process fallback used when REDIS_ADDR is empty.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter reports whether key may make another request in the current
// window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// incrScript bumps the window counter and sets its TTL in one step. A
// counter found without a TTL gets one, so no key can outlive its window.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter keeps one counter per key and window in Redis.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

// NewRedis returns a limiter allowing max requests per window.
func NewRedis(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window, prefix: "storefront:ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := incrScript.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit: redis incr: %w", err)
	}
	return n <= int64(l.max), nil
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ratelimit: ping %s: %w", addr, err)
	}
	return client, nil
}

type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps fixed-window counters in process memory. Expired
// buckets are swept once per window on the request path.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	max       int
	window    time.Duration
	nextSweep time.Time
	now       func() time.Time
}

// NewMemory returns a limiter allowing max requests per window.
func NewMemory(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}

	b.count++
	return b.count <= l.max, nil
}

// Len reports how many keys are being tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
