package ratelimiter

import (
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often the background cleanup removes stale keys.
const sweepInterval = 5 * time.Minute

// RatePolicy defines the rate limit configuration for a namespace
type RatePolicy struct {
	MaxRequests int
	Window      time.Duration
}

// Decision is the outcome of a rate limit check. ResetAfter is the time
// until the oldest counted request falls out of the window; it is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
}

// RateLimiter provides in-memory sliding-window rate limiting with
// namespace support. It tracks requests per namespace:key combination
// and enforces different limits for different namespaces.
//
// The limiter is per-process and best-effort: each instance maintains an
// independent counter. Its purpose is abuse dampening, not hard quota
// enforcement. It sits behind this small surface so a distributed counter
// can replace it without touching calling code.
//
// Example usage:
//
//	rl := ratelimiter.NewRateLimiter(30, time.Minute)
//	rl.SetPolicy("query.execute", 20, time.Minute)
//
//	if d := rl.Check("query.execute", workspaceID); !d.Allowed {
//	    return http.StatusTooManyRequests
//	}
type RateLimiter struct {
	mu          sync.RWMutex
	requests    map[string][]time.Time // "namespace:key" -> timestamps
	policies    map[string]RatePolicy  // namespace -> policy
	fallback    RatePolicy             // used when a namespace has no policy
	stopCleanup chan struct{}
	stopped     bool
}

// NewRateLimiter creates a rate limiter whose default policy applies to any
// namespace without an explicit one. A background cleanup goroutine removes
// stale entries to bound memory.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		policies: make(map[string]RatePolicy),
		fallback: RatePolicy{
			MaxRequests: maxRequests,
			Window:      window,
		},
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// SetPolicy configures the rate limit policy for a specific namespace,
// overriding the default. Call during initialization, before Check is used.
func (rl *RateLimiter) SetPolicy(namespace string, maxRequests int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.policies[namespace] = RatePolicy{
		MaxRequests: maxRequests,
		Window:      window,
	}
}

// Check evaluates and records a request for the given namespace and key.
// Timestamps older than the window are dropped; if the remaining count has
// reached the limit the request is rejected and ResetAfter reports how long
// until the oldest request expires. Otherwise the request is counted.
//
// This method is thread-safe and can be called concurrently.
func (rl *RateLimiter) Check(namespace, key string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, exists := rl.policies[namespace]
	if !exists {
		policy = rl.fallback
	}

	now := time.Now()
	cutoff := now.Add(-policy.Window)
	compositeKey := namespace + ":" + key

	existing := rl.requests[compositeKey]
	valid := make([]time.Time, 0, len(existing))
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= policy.MaxRequests {
		rl.requests[compositeKey] = valid

		oldest := valid[0]
		for _, t := range valid {
			if t.Before(oldest) {
				oldest = t
			}
		}
		reset := time.Until(oldest.Add(policy.Window))
		if reset < 0 {
			reset = 0
		}

		return Decision{Allowed: false, Remaining: 0, ResetAfter: reset}
	}

	valid = append(valid, now)
	rl.requests[compositeKey] = valid

	return Decision{
		Allowed:   true,
		Remaining: policy.MaxRequests - len(valid),
	}
}

// Allow is a convenience wrapper around Check for callers that only need
// the boolean outcome.
func (rl *RateLimiter) Allow(namespace, key string) bool {
	return rl.Check(namespace, key).Allowed
}

// Reset clears all recorded requests for the given namespace and key.
func (rl *RateLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.requests, namespace+":"+key)
}

// cleanup periodically removes entries with no requests inside their
// namespace's window. This prevents unbounded memory growth.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()

			for compositeKey, timestamps := range rl.requests {
				namespace := compositeKey
				if idx := strings.IndexByte(compositeKey, ':'); idx >= 0 {
					namespace = compositeKey[:idx]
				}

				policy, exists := rl.policies[namespace]
				if !exists {
					policy = rl.fallback
				}

				cutoff := now.Add(-policy.Window)
				hasRecent := false
				for _, t := range timestamps {
					if t.After(cutoff) {
						hasRecent = true
						break
					}
				}

				if !hasRecent {
					delete(rl.requests, compositeKey)
				}
			}
			rl.mu.Unlock()

		case <-rl.stopCleanup:
			return
		}
	}
}

// Stop stops the background cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.stopped {
		close(rl.stopCleanup)
		rl.stopped = true
	}
}
