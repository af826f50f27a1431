package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis keeps sliding windows in Redis sorted sets keyed by client, scored by
// request time. Safe across multiple service instances sharing one Redis.
type Redis struct {
	rdb *redis.Client
	seq atomic.Uint64 // disambiguates members recorded within one clock tick
}

// NewRedis connects a store to the Redis at addr.
func NewRedis(addr string) *Redis {
	return &Redis{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.rdb.Close() }

// Ping verifies connectivity, for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	zkey := "filecrypt:rl:" + key
	cutoff := now.Add(-window)

	if err := r.rdb.ZRemRangeByScore(ctx, zkey,
		"-inf", fmt.Sprintf("%d", cutoff.UnixNano())).Err(); err != nil {
		return false, fmt.Errorf("ratelimit prune: %w", err)
	}
	n, err := r.rdb.ZCard(ctx, zkey).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit count: %w", err)
	}
	if n >= int64(limit) {
		return false, nil
	}
	member := fmt.Sprintf("%d-%d", now.UnixNano(), r.seq.Add(1))
	if err := r.rdb.ZAdd(ctx, zkey, redis.Z{Score: float64(now.UnixNano()), Member: member}).Err(); err != nil {
		return false, fmt.Errorf("ratelimit record: %w", err)
	}
	// Keys for idle clients expire on their own once the window passes.
	_ = r.rdb.Expire(ctx, zkey, window).Err()
	return true, nil
}
