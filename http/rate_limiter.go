package http

import (
	"sync"
	"time"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

// clientBucket is a fixed window: capacity requests per window, reset when
// the window elapses.
type clientBucket struct {
	tokens      int
	windowStart time.Time
}

// RateLimiter limits requests per client key. A non-positive capacity
// disables limiting.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	window      time.Duration
	clients     map[string]*clientBucket
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		window:      window,
		clients:     make(map[string]*clientBucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, bucket := range r.clients {
		if now.Sub(bucket.windowStart) > bucketCleanupThreshold {
			delete(r.clients, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow consumes one request for key. When the request is refused it also
// reports how long until the client's window resets.
func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	if r.capacity <= 0 {
		return true, 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[key]
	if !exists {
		r.clients[key] = &clientBucket{
			tokens:      r.capacity - 1,
			windowStart: now,
		}
		return true, 0
	}

	if now.Sub(bucket.windowStart) >= r.window {
		bucket.tokens = r.capacity
		bucket.windowStart = now
	}

	if bucket.tokens <= 0 {
		return false, bucket.windowStart.Add(r.window).Sub(now)
	}

	bucket.tokens--
	return true, 0
}
