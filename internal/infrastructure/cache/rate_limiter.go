package cache

import (
	"context"
	"time"
)

// RateLimiter counts requests per key in fixed windows. Implementations must
// be safe for concurrent use; the HTTP middleware calls Allow on every
// request with the client address as the key.
type RateLimiter interface {
	// Allow records one request for key and reports whether it stays within
	// the configured window limit.
	Allow(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the limiter
	Close() error
}

// windowStart truncates now to the beginning of its fixed window
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}
