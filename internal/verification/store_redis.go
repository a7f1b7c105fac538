package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for attempt counters.
const attemptKeyPrefix = "verify:attempts:"

// RedisSessionStore shares attempt counts across instances. This is the
// production implementation for distributed deployments; the client
// lifecycle is managed externally.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// RecordFailure uses INCR plus EXPIRE in one pipeline so the counter is
// atomic across instances and always carries a TTL.
func (s *RedisSessionStore) RecordFailure(ctx context.Context, key string) (int, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, attemptKeyPrefix+key)
	pipe.Expire(ctx, attemptKeyPrefix+key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record verification failure: %w", err)
	}
	return int(incr.Val()), nil
}

func (s *RedisSessionStore) Failures(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, attemptKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get verification failures: %w", err)
	}
	return count, nil
}

func (s *RedisSessionStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, attemptKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset verification session: %w", err)
	}
	return nil
}
