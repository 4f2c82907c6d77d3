package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisCounterStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCounterStore(client), mr
}

func TestRedisStoreCountsAndExpires(t *testing.T) {
	store, mr := newRedisStore(t)

	count, ttl, err := store.Incr(context.Background(), "rl:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, time.Minute, ttl)

	count, ttl, err = store.Incr(context.Background(), "rl:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.LessOrEqual(t, ttl, time.Minute)

	mr.FastForward(time.Minute + time.Second)

	count, _, err = store.Incr(context.Background(), "rl:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count, "counter starts over after the window expires")
}

func TestRedisStoreReattachesLostTTL(t *testing.T) {
	store, mr := newRedisStore(t)

	// A key without expiry models a crash between INCR and EXPIRE.
	require.NoError(t, mr.Set("rl:login:10.0.0.1", "3"))

	count, ttl, err := store.Incr(context.Background(), "rl:login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 4, count)
	require.Equal(t, time.Minute, ttl)
	require.Greater(t, mr.TTL("rl:login:10.0.0.1"), time.Duration(0))
}

func TestRedisStoreBoundaryWithLimiter(t *testing.T) {
	store, _ := newRedisStore(t)
	limiter := NewLimiter(store, map[RouteClass]Policy{
		ClassLogin: {Window: 5 * time.Minute, MaxRequests: 5},
	})

	for i := 0; i < 5; i++ {
		decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	decision, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
	require.NoError(t, err)
	require.False(t, decision.Allowed, "request N+1 in the window is denied")
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := NewRedisCounterStore(client)
	limiter := NewLimiter(store, nil)

	mr.Close()

	_, err := limiter.Check(context.Background(), "10.0.0.1", ClassLogin)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
