package quota

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed token_bucket.lua
var tokenBucketScript string

// RedisStore is a Store backed by Redis. The bucket's read-compute-write
// runs as a single server-side Lua script, so concurrent checks on the
// same key from any number of gateway instances serialize inside Redis.
type RedisStore struct {
	client *redis.Client
	script *redis.Script

	now func() time.Time
}

// NewRedisStore constructs a RedisStore and verifies connectivity.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{
		client: client,
		script: redis.NewScript(tokenBucketScript),
		now:    time.Now,
	}, nil
}

// Consume implements Store.
func (r *RedisStore) Consume(ctx context.Context, key string, capacity int64) (Result, error) {
	now := float64(r.now().UnixMicro()) / 1e6

	raw, err := r.script.Run(ctx, r.client, []string{key},
		capacity,
		now,
		int64(Window.Seconds()),
	).Result()
	if err != nil {
		return Result{}, fmt.Errorf("token bucket script: %w", err)
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return Result{}, fmt.Errorf("token bucket script: unexpected reply %v", raw)
	}

	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)

	return Result{Allowed: allowed == 1, Remaining: remaining}, nil
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
