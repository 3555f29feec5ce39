package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncGuard serializes sync runs and records when the last one finished.
// The redis implementation covers multi-process deployments; the in-memory
// one covers single-instance setups without redis.
type SyncGuard interface {
	// TryLock attempts to take the sync lock for at most ttl. It returns
	// false without blocking when another sync holds it.
	TryLock(ctx context.Context, ttl time.Duration) (bool, error)
	// Unlock releases the sync lock.
	Unlock(ctx context.Context) error
	// SetLastSync records the completion time of a successful sync.
	SetLastSync(ctx context.Context, t time.Time) error
	// LastSync returns the recorded completion time, zero when none.
	LastSync(ctx context.Context) (time.Time, error)
	Close() error
}

// RedisGuard is the redis-backed SyncGuard.
type RedisGuard struct {
	client *redis.Client
	prefix string
}

// NewRedisGuard connects to redis and verifies the connection.
func NewRedisGuard(redisURL, prefix string) (*RedisGuard, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisGuard{client: client, prefix: prefix}, nil
}

func (r *RedisGuard) lockKey() string     { return r.prefix + "sync:lock" }
func (r *RedisGuard) lastSyncKey() string { return r.prefix + "sync:last" }

func (r *RedisGuard) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.lockKey(), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

func (r *RedisGuard) Unlock(ctx context.Context) error {
	return r.client.Del(ctx, r.lockKey()).Err()
}

func (r *RedisGuard) SetLastSync(ctx context.Context, t time.Time) error {
	return r.client.Set(ctx, r.lastSyncKey(), t.UTC().Format(time.RFC3339), 0).Err()
}

func (r *RedisGuard) LastSync(ctx context.Context) (time.Time, error) {
	val, err := r.client.Get(ctx, r.lastSyncKey()).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("redis get error: %w", err)
	}
	return time.Parse(time.RFC3339, val)
}

func (r *RedisGuard) Close() error {
	return r.client.Close()
}
