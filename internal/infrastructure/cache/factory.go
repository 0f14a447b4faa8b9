package cache

import (
	"fmt"
	"time"

	"github.com/facturo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RateLimiterFactory creates rate limiters based on configuration
type RateLimiterFactory struct {
	redisConfig           config.RedisConfig
	limit                 int
	window                time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RateLimiterFactoryOption is a functional option for configuring the factory
type RateLimiterFactoryOption func(*RateLimiterFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RateLimiterFactoryOption {
	return func(f *RateLimiterFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory limiter
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RateLimiterFactoryOption {
	return func(f *RateLimiterFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRateLimiterFactory creates a new factory
func NewRateLimiterFactory(cfg config.RedisConfig, limit int, window time.Duration, opts ...RateLimiterFactoryOption) *RateLimiterFactory {
	f := &RateLimiterFactory{
		redisConfig:           cfg,
		limit:                 limit,
		window:                window,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLimiter creates a Redis-backed rate limiter
func (f *RateLimiterFactory) CreateRedisLimiter() (RateLimiter, error) {
	limiter, err := NewRedisRateLimiter(f.redisConfig, f.limit, f.window)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis rate limiter: %w", err)
	}
	return limiter, nil
}

// CreateInMemoryLimiter creates an in-memory rate limiter.
// WARNING: in-memory counters are not shared across process instances, so
// a distributed deployment enforces the limit per instance.
func (f *RateLimiterFactory) CreateInMemoryLimiter() RateLimiter {
	return NewInMemoryRateLimiter(f.limit, f.window)
}

// CreateLimiter tries Redis first and falls back to in-memory when Redis is
// unavailable and fallback is allowed.
func (f *RateLimiterFactory) CreateLimiter() (RateLimiter, error) {
	limiter, err := f.CreateRedisLimiter()
	if err == nil {
		f.logger.Info("using Redis rate limiter")
		return limiter, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for rate limiting but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rate limiter. "+
		"Limits apply per instance in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryLimiter(), nil
}
