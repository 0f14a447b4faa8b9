package cache

import (
	"context"
	"sync"
	"time"
)

// bucket holds the request count for one key in one fixed window
type bucket struct {
	windowStart time.Time
	count       int
}

// InMemoryRateLimiter implements RateLimiter with an in-process map.
// Suitable for single-instance deployments and testing; counters are not
// shared across processes.
type InMemoryRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]bucket
	limit     int
	window    time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// now is swappable in tests
	now func() time.Time
}

// NewInMemoryRateLimiter creates an in-memory rate limiter and starts a
// background goroutine that evicts stale windows.
func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}

	l := &InMemoryRateLimiter{
		buckets:  make(map[string]bucket),
		limit:    limit,
		window:   window,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Allow records one request for key within the current fixed window
func (l *InMemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	start := windowStart(l.now(), l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists || b.windowStart.Before(start) {
		b = bucket{windowStart: start}
	}
	b.count++
	l.buckets[key] = b

	return b.count <= l.limit, nil
}

// Close stops the cleanup goroutine
func (l *InMemoryRateLimiter) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	return nil
}

// cleanupLoop periodically removes buckets whose window has passed
func (l *InMemoryRateLimiter) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopChan:
			return
		}
	}
}

func (l *InMemoryRateLimiter) cleanup() {
	start := windowStart(l.now(), l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.windowStart.Before(start) {
			delete(l.buckets, key)
		}
	}
}

var _ RateLimiter = (*InMemoryRateLimiter)(nil)
