package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterAllowsUpToPolicy(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), nil)
	policy, ok := limiter.Policy(ClassLogin)
	require.True(t, ok)

	for i := 1; i <= policy.MaxRequests; i++ {
		decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
		require.NoError(t, err)
		require.True(t, decision.Allowed, "request %d should pass", i)
		require.Equal(t, policy.MaxRequests-i, decision.Remaining)
	}

	decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Zero(t, decision.Remaining)
	require.Greater(t, decision.RetryAfter, time.Duration(0))
}

func TestLimiterIsolatesClients(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), nil)
	policy, _ := limiter.Policy(ClassLogin)

	for i := 0; i <= policy.MaxRequests; i++ {
		_, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
		require.NoError(t, err)
	}

	decision, err := limiter.Check(context.Background(), "10.0.0.2", ClassLogin)
	require.NoError(t, err)
	require.True(t, decision.Allowed, "a different IP has its own window")
}

func TestLimiterIsolatesClasses(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), nil)
	policy, _ := limiter.Policy(ClassLogin)

	for i := 0; i <= policy.MaxRequests; i++ {
		_, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
		require.NoError(t, err)
	}

	decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassSensitive)
	require.NoError(t, err)
	require.True(t, decision.Allowed, "exhausting one class leaves others untouched")
}

func TestLimiterWindowResets(t *testing.T) {
	store := NewMemoryCounterStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	limiter := NewLimiter(store, nil)
	policy, _ := limiter.Policy(ClassLogin)

	for i := 0; i < policy.MaxRequests; i++ {
		decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}
	decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	current = current.Add(policy.Window + time.Second)

	decision, err = limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
	require.NoError(t, err)
	require.True(t, decision.Allowed, "a fresh window starts after expiry")
	require.Equal(t, policy.MaxRequests-1, decision.Remaining)
}

func TestLimiterUnknownClass(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), nil)

	_, err := limiter.Check(context.Background(), "10.0.0.1", RouteClass("bogus"))
	require.Error(t, err)
}

func TestMemoryStoreEvict(t *testing.T) {
	store := NewMemoryCounterStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	_, _, err := store.Incr(context.Background(), "rl:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	require.Len(t, store.windows, 1)

	store.Evict()
	require.Len(t, store.windows, 1, "live windows survive eviction")

	current = current.Add(2 * time.Minute)
	store.Evict()
	require.Empty(t, store.windows)
}
