package cache

import (
	"context"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process fallback used when no Redis is configured.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(_ context.Context, publicID string) (*domain.Resume, error) {
	if cached, found := c.cache.Get(publicID); found {
		return cached.(*domain.Resume).Clone(), nil
	}
	return nil, usecase.ErrCacheMiss
}

func (c *MemoryCache) Set(_ context.Context, r *domain.Resume) error {
	if r.PublicID == "" {
		return nil
	}
	c.cache.Set(r.PublicID, r.Clone(), gocache.DefaultExpiration)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, publicID string) error {
	c.cache.Delete(publicID)
	return nil
}

// Count reports the number of cached entries.
func (c *MemoryCache) Count() int { return c.cache.ItemCount() }
