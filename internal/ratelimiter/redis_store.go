package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts within fixed windows using one pipelined round trip:
// INCR the window-stamped key, set its expiry on first increment. Window
// membership is encoded in the key, so rollover needs no server-side logic
// and concurrent instances sharing the Redis agree on every count.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowStart := time.Now().UnixMilli() / window.Milliseconds()
	bucket := fmt.Sprintf("%s:%d", key, windowStart)

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, bucket)
	// Expire after two windows so a bucket read late in its window still
	// exists, while stale buckets cannot accumulate.
	pipe.PExpire(ctx, bucket, 2*window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incr window counter: %w", err)
	}
	return incr.Val(), nil
}
