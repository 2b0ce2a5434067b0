package ratelimiter

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(30, time.Minute)
	require.NotNil(t, rl)
	assert.NotNil(t, rl.requests)
	assert.Equal(t, 30, rl.fallback.MaxRequests)
	assert.Equal(t, time.Minute, rl.fallback.Window)

	rl.Stop()
	// Stop must be idempotent
	rl.Stop()
}

func TestRateLimiter_Check_BasicLimiting(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	key := "workspace-1"

	for i := 0; i < 3; i++ {
		d := rl.Check("sync", key)
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d := rl.Check("sync", key)
	assert.False(t, d.Allowed, "fourth request should be rejected")
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.ResetAfter, time.Duration(0))
}

func TestRateLimiter_Check_WindowExpiration(t *testing.T) {
	rl := NewRateLimiter(3, 500*time.Millisecond)
	defer rl.Stop()

	key := "workspace-1"

	assert.True(t, rl.Check("sync", key).Allowed)
	assert.True(t, rl.Check("sync", key).Allowed)
	assert.True(t, rl.Check("sync", key).Allowed)
	assert.False(t, rl.Check("sync", key).Allowed)

	time.Sleep(600 * time.Millisecond)

	assert.True(t, rl.Check("sync", key).Allowed, "should allow again after window expires")
}

func TestRateLimiter_Check_NamespacePolicy(t *testing.T) {
	rl := NewRateLimiter(30, time.Minute)
	defer rl.Stop()

	rl.SetPolicy("query.execute", 2, time.Minute)

	key := "workspace-1"

	// Tighter namespace policy applies
	assert.True(t, rl.Check("query.execute", key).Allowed)
	assert.True(t, rl.Check("query.execute", key).Allowed)
	assert.False(t, rl.Check("query.execute", key).Allowed)

	// Default policy still applies to other namespaces for the same key
	assert.True(t, rl.Check("detect", key).Allowed)
}

func TestRateLimiter_Check_DifferentKeys(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Check("sync", "ws-a").Allowed)
	assert.True(t, rl.Check("sync", "ws-a").Allowed)
	assert.False(t, rl.Check("sync", "ws-a").Allowed)

	// Independent counter per key
	assert.True(t, rl.Check("sync", "ws-b").Allowed)
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Check("sync", "ws-a").Allowed)
	assert.False(t, rl.Check("sync", "ws-a").Allowed)

	rl.Reset("sync", "ws-a")

	assert.True(t, rl.Check("sync", "ws-a").Allowed)
}

func TestRateLimiter_Concurrency(t *testing.T) {
	rl := NewRateLimiter(50, time.Minute)
	defer rl.Stop()

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			allowed <- rl.Check("sync", fmt.Sprintf("ws-%d", n%2)).Allowed
		}(i)
	}

	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	// 2 keys x 50 max = all 100 should pass
	assert.Equal(t, 100, count)
}
