package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	timer   *time.Timer
}

// UserRateLimiter keeps one token bucket per identity (client address).
// Buckets unused for expirationTime are dropped.
type UserRateLimiter struct {
	limiters       map[string]*entry
	mu             sync.Mutex
	limit          rate.Limit
	burst          int
	expirationTime time.Duration
}

// New allows burst events at once, refilled one per interval.
// A zero interval disables limiting.
func New(interval time.Duration, burst int, expirationTime time.Duration) *UserRateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &UserRateLimiter{
		limiters:       make(map[string]*entry),
		limit:          limit,
		burst:          burst,
		expirationTime: expirationTime,
	}
}

func (url *UserRateLimiter) cleanup(identity string) {
	url.mu.Lock()
	delete(url.limiters, identity)
	url.mu.Unlock()
}

// getLimiter gets or creates the bucket of identity and pushes back its expiry.
func (url *UserRateLimiter) getLimiter(identity string) *rate.Limiter {
	url.mu.Lock()
	defer url.mu.Unlock()

	e, exists := url.limiters[identity]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(url.limit, url.burst)}
		url.limiters[identity] = e
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(url.expirationTime, func() {
		url.cleanup(identity)
	})
	return e.limiter
}

// Allow reports whether identity may act now, consuming a token if so.
func (url *UserRateLimiter) Allow(identity string) bool {
	return url.getLimiter(identity).Allow()
}

func (url *UserRateLimiter) Len() int {
	url.mu.Lock()
	defer url.mu.Unlock()
	return len(url.limiters)
}

// Stop cleans up all timers
func (url *UserRateLimiter) Stop() {
	url.mu.Lock()
	defer url.mu.Unlock()

	for _, e := range url.limiters {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
