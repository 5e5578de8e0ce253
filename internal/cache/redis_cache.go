package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/redis/go-redis/v9"
)

// maxUpdateAttempts bounds the optimistic retries of Update.
const maxUpdateAttempts = 5

type redisCache struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{
		client: client,
		cfg:    cfg,
	}
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {

		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("failed to get key %s from redis: %w", key, err)

	}

	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache data for key %s: %w", key, err)
	}

	return true, nil
}

// Set stores value as JSON. A non-positive ttl falls back to the configured default.
func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}

	return nil

}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys %v from redis: %w", keys, err)
	}

	return nil

}

// Update runs fn inside a WATCH transaction on key and retries when another
// client wrote the key between the read and the write.
func (r *redisCache) Update(ctx context.Context, key string, value any, ttl time.Duration, fn func(found bool) (bool, error)) error {

	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}

	txf := func(tx *redis.Tx) error {
		found := true

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			found = false
		case err != nil:
			return fmt.Errorf("failed to get key %s from redis: %w", key, err)
		default:
			// an undecodable payload is overwritten
			if err := json.Unmarshal(data, value); err != nil {
				found = false
			}
		}

		write, err := fn(found)
		if err != nil || !write {
			return err
		}

		out, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, ttl)
			return nil
		})

		return err
	}

	for range maxUpdateAttempts {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to update key %s in redis: %w", key, err)
		}

		return nil
	}

	return fmt.Errorf("failed to update key %s in redis: %w", key, ErrConflict)
}

// The client is owned by main.
func (r *redisCache) Close() error {
	return nil
}
