package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter implements RateLimiter on Redis so the window counters are
// shared across instances. Each key gets one counter per window, expired by
// Redis itself.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// NewRedisRateLimiter creates a Redis-backed rate limiter and verifies the
// connection before returning.
func NewRedisRateLimiter(cfg config.RedisConfig, limit int, window time.Duration) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	return newRedisRateLimiter(client, limit, window), nil
}

// NewRedisRateLimiterWithClient creates a rate limiter with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisRateLimiterWithClient(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return newRedisRateLimiter(client, limit, window)
}

func newRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: "ratelimit:",
		limit:     limit,
		window:    window,
	}
}

// Allow increments the counter for the key's current window. INCR and EXPIRE
// run in one pipeline so the counter never outlives its window.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("%s%s:%d", l.keyPrefix, key, windowStart(time.Now(), l.window).Unix())

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}

	return count.Val() <= int64(l.limit), nil
}

// Close closes the Redis client
func (l *RedisRateLimiter) Close() error {
	return l.client.Close()
}

var _ RateLimiter = (*RedisRateLimiter)(nil)
