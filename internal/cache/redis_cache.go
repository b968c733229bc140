package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"
)

const redisNamespace = "kasirweb:"

type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Redis{client: client}
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}

func (c *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, redisNamespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrapf(err, "redis get %s", key)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, pkgerrors.Wrapf(err, "decode cached %s", key)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrapf(err, "encode cached %s", key)
	}
	return c.client.Set(ctx, redisNamespace+key, payload, ttl).Err()
}

// Invalidate removes every key under the given prefixes. Keys are collected
// with SCAN so large keyspaces never block the server.
func (c *Redis) Invalidate(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		iter := c.client.Scan(ctx, 0, redisNamespace+prefix+"*", 200).Iterator()
		batch := make([]string, 0, 200)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == cap(batch) {
				if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
					return pkgerrors.Wrapf(err, "unlink %s*", prefix)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return pkgerrors.Wrapf(err, "scan %s*", prefix)
		}
		if len(batch) > 0 {
			if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
				return pkgerrors.Wrapf(err, "unlink %s*", prefix)
			}
		}
	}
	return nil
}
