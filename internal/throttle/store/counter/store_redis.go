package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps throttle counters in Redis so that every instance shares
// one budget per client.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

const defaultKeyPrefix = "throttle:"

// NewRedis creates a Redis backed counter store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, s.keyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}
	return n, nil
}

// Increment runs INCR and EXPIRE in one MULTI/EXEC transaction. Without
// refreshTTL the expiry uses the NX flag, so only the first increment of a
// bucket sets it.
func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration, refreshTTL bool) (int64, error) {
	redisKey := s.keyPrefix + key

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		if refreshTTL {
			pipe.Expire(ctx, redisKey, ttl)
		} else {
			pipe.ExpireNX(ctx, redisKey, ttl)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return incr.Val(), nil
}
