package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

type limit struct {
	capacity float64
	refill   float64 // tokens per second
}

// RateLimiter is a per-identity token bucket keyed by action.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limits  map[string]limit
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limits: map[string]limit{
			"send_message": {capacity: 30, refill: 1},
			"send_file":    {capacity: 10, refill: 0.2},
			"create_chat":  {capacity: 5, refill: 0.1},
		},
	}
}

// Allow consumes one token for identity performing action. It returns
// a TOO_MANY_REQUESTS error when the bucket is empty.
func (r *RateLimiter) Allow(identity, action string) error {
	lim, ok := r.limits[action]
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := identity + ":" + action
	now := time.Now()

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{tokens: lim.capacity, lastRefill: now}
		r.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * lim.refill
	if b.tokens > lim.capacity {
		b.tokens = lim.capacity
	}
	b.lastRefill = now

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) / lim.refill * float64(time.Second))
		return errors.TooManyRequests(
			fmt.Sprintf("Rate limit exceeded for %s, retry in %s", action, wait.Round(time.Second)),
		)
	}

	b.tokens--
	return nil
}
