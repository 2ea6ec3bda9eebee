// Package cache keeps recently viewed shared resumes close to the API so
// public links do not hit the database on every view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "resume:public:"

// RedisCache stores shared resumes as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, publicID string) (*domain.Resume, error) {
	b, err := c.client.Get(ctx, keyPrefix+publicID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var r domain.Resume
	if err := json.Unmarshal(b, &r); err != nil {
		// a value we cannot read is as good as absent
		_ = c.client.Del(ctx, keyPrefix+publicID).Err()
		return nil, usecase.ErrCacheMiss
	}
	return &r, nil
}

func (c *RedisCache) Set(ctx context.Context, r *domain.Resume) error {
	if r.PublicID == "" {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+r.PublicID, b, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, publicID string) error {
	return c.client.Del(ctx, keyPrefix+publicID).Err()
}
