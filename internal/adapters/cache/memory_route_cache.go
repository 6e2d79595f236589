package cache

import (
	"context"
	"delivery-geo-service/internal/domain"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type memoryEntry struct {
	routes    []domain.Route
	expiresAt time.Time
}

// MemoryRouteCache is an in-process route cache for single-instance
// deployments. Expired entries are dropped lazily on read.
type MemoryRouteCache struct {
	entries   cmap.ConcurrentMap[string, memoryEntry]
	ttl       time.Duration
	precision uint
	now       func() time.Time
}

func NewMemoryRouteCache(ttl time.Duration, precision uint) *MemoryRouteCache {
	return &MemoryRouteCache{
		entries:   cmap.New[memoryEntry](),
		ttl:       ttl,
		precision: precision,
		now:       time.Now,
	}
}

func (c *MemoryRouteCache) Get(_ context.Context, start, end domain.Coordinate) ([]domain.Route, bool, error) {
	key := RouteKey(start, end, c.precision)

	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && !c.now().Before(e.expiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return e.routes, true, nil
}

func (c *MemoryRouteCache) Put(_ context.Context, start, end domain.Coordinate, routes []domain.Route) error {
	c.entries.Set(RouteKey(start, end, c.precision), memoryEntry{
		routes:    routes,
		expiresAt: c.now().Add(c.ttl),
	})
	return nil
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *MemoryRouteCache) Len() int { return c.entries.Count() }
