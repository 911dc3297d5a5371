package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	config "github.com/MathengeNewton/socialCommerce-sub000/configs"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Counter is an atomic increment-and-window primitive. The first increment of
// a key starts its window; the counter resets when the window expires.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter shares the window across every worker process.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Limiter gates adapter calls with a fixed window per platform.
type Limiter struct {
	counter Counter
	window  time.Duration
	limits  map[models.Platform]int
}

func NewLimiter(counter Counter, cfg config.RateLimits) *Limiter {
	return &Limiter{
		counter: counter,
		window:  cfg.Window,
		limits: map[models.Platform]int{
			models.PlatformFacebook:  cfg.Facebook,
			models.PlatformInstagram: cfg.Instagram,
			models.PlatformTiktok:    cfg.Tiktok,
			models.PlatformTwitter:   cfg.Twitter,
		},
	}
}

// Allow counts one call for the platform and rejects it once the window's
// limit is exceeded. The returned error wraps ErrRateLimitExceeded so the
// queue treats it as retryable.
func (l *Limiter) Allow(ctx context.Context, platform models.Platform) error {
	limit, ok := l.limits[platform]
	if !ok || limit <= 0 {
		return nil
	}

	n, err := l.counter.Incr(ctx, "ratelimit:"+string(platform), l.window)
	if err != nil {
		return fmt.Errorf("rate limit counter: %w", err)
	}

	if n > int64(limit) {
		return fmt.Errorf("%w for %s: %d calls in window, limit %d", ErrRateLimitExceeded, platform, n, limit)
	}

	return nil
}
