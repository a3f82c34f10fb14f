// Package cache wraps Redis for the search-result cache: TTL-expired
// entries under the jobs:v1: prefix plus prewarm bookkeeping.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Prefix is shared by every cached search page. Admin CRUD mutations
// invalidate the whole prefix.
const Prefix = "jobs:v1:"

// lastPrewarmKey lives outside Prefix so prefix invalidation cannot wipe
// the prewarm cooldown marker.
const lastPrewarmKey = "jobs:meta:last_prewarm"

// Redis is the search cache. Entries expire by TTL only; there is no
// eviction policy beyond that.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache writing entries with the given TTL.
func New(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// Get returns the cached value for key and whether it was present.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key with the configured TTL, overwriting any
// existing entry.
func (c *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key under prefix via SCAN+DEL. Admin
// mutations bust the whole namespace rather than targeting entries.
func (c *Redis) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var deleted int
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache del %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	return deleted, nil
}

// LastPrewarm returns the time of the last completed prewarm pass, or the
// zero time when none is recorded.
func (c *Redis) LastPrewarm(ctx context.Context) (time.Time, error) {
	val, err := c.rdb.Get(ctx, lastPrewarmKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last prewarm: %w", err)
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

// SetLastPrewarm records the completion time of a prewarm pass.
func (c *Redis) SetLastPrewarm(ctx context.Context, t time.Time) error {
	if err := c.rdb.Set(ctx, lastPrewarmKey, t.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("set last prewarm: %w", err)
	}
	return nil
}
