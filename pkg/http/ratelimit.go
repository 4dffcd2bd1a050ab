package http

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces out requests to the same host
type RateLimiter interface {
	// Wait blocks until a request to host may be made or ctx is done
	Wait(ctx context.Context, host string) error
}

// HostRateLimiter enforces a minimum delay between requests to each host
type HostRateLimiter struct {
	mu       sync.Mutex
	next     map[string]time.Time
	minDelay time.Duration
}

// NewHostRateLimiter creates a limiter allowing one request per host every minDelay
func NewHostRateLimiter(minDelay time.Duration) *HostRateLimiter {
	return &HostRateLimiter{
		next:     make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait reserves the next slot for host and sleeps until it arrives
func (rl *HostRateLimiter) Wait(ctx context.Context, host string) error {
	rl.mu.Lock()
	now := time.Now()
	slot := rl.next[host]
	if slot.Before(now) {
		slot = now
	}
	rl.next[host] = slot.Add(rl.minDelay)
	rl.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoOpRateLimiter performs no rate limiting
type NoOpRateLimiter struct{}

// Wait returns immediately
func (NoOpRateLimiter) Wait(context.Context, string) error {
	return nil
}
