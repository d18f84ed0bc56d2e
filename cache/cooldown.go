package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"

	"food-truck-api/apperrors"
)

// Cooldown lets an action through once per window per key.
type Cooldown interface {
	// Acquire starts a new window for key. When the previous window is still
	// open it returns false and the time left.
	Acquire(ctx context.Context, key string) (bool, time.Duration, error)
}

const cooldownPrefix = "cooldown:"

type RedisCooldown struct {
	client *redis.Client
	window time.Duration
}

func NewRedisCooldown(client *redis.Client, window time.Duration) *RedisCooldown {
	return &RedisCooldown{client: client, window: window}
}

func (c *RedisCooldown) Acquire(ctx context.Context, key string) (bool, time.Duration, error) {
	k := cooldownPrefix + key
	ok, err := c.client.SetNX(ctx, k, 1, c.window).Result()
	if err != nil {
		return false, 0, apperrors.Transient("cache.Cooldown", err)
	}
	if ok {
		return true, 0, nil
	}

	left, err := c.client.PTTL(ctx, k).Result()
	if err != nil {
		return false, 0, apperrors.Transient("cache.Cooldown", err)
	}
	if left <= 0 {
		// key expired between the two calls or has no TTL
		left = c.window
	}
	return false, left, nil
}

// MemoryCooldown keeps one single-token limiter per key.
type MemoryCooldown struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	window   time.Duration
	now      func() time.Time
}

func NewMemoryCooldown(window time.Duration) *MemoryCooldown {
	return &MemoryCooldown{
		limiters: make(map[string]*rate.Limiter),
		window:   window,
		now:      time.Now,
	}
}

// limiter returns the key's limiter. Adding a key first drops every limiter
// whose window has fully elapsed, since a fresh one behaves the same.
func (c *MemoryCooldown) limiter(key string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	lim, ok := c.limiters[key]
	if !ok {
		for k, l := range c.limiters {
			if l.TokensAt(now) >= 1 {
				delete(c.limiters, k)
			}
		}
		lim = rate.NewLimiter(rate.Every(c.window), 1)
		c.limiters[key] = lim
	}
	return lim
}

func (c *MemoryCooldown) Acquire(_ context.Context, key string) (bool, time.Duration, error) {
	now := c.now()
	r := c.limiter(key, now).ReserveN(now, 1)
	if !r.OK() {
		return false, c.window, nil
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d, nil
	}
	return true, 0, nil
}
