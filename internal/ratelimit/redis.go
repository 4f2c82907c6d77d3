package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore backs rate windows with Redis so counters stay
// globally consistent across horizontally scaled instances. INCR is the
// atomic increment-and-get; the expiry is attached when the increment
// created the key, giving every window a hard TTL.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("rate counter incr: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("rate counter expire: %w", err)
		}
		return count, window, nil
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("rate counter ttl: %w", err)
	}
	if ttl < 0 {
		// Key lost its expiry (e.g. a crash between INCR and EXPIRE on
		// creation). Reattach it rather than leaving a counter that never
		// resets.
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("rate counter expire: %w", err)
		}
		ttl = window
	}
	return count, ttl, nil
}
