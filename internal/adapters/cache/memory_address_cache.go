package cache

import (
	"context"
	"delivery-geo-service/internal/domain"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// MemoryAddressCache is the in-process counterpart of SQLAddressCache.
type MemoryAddressCache struct {
	entries   cmap.ConcurrentMap[string, string]
	precision uint
}

func NewMemoryAddressCache(precision uint) *MemoryAddressCache {
	return &MemoryAddressCache{entries: cmap.New[string](), precision: precision}
}

func (c *MemoryAddressCache) Get(_ context.Context, p domain.Coordinate) (string, bool, error) {
	addr, ok := c.entries.Get(PointKey(p, c.precision))
	return addr, ok, nil
}

func (c *MemoryAddressCache) Put(_ context.Context, p domain.Coordinate, address string) error {
	c.entries.Set(PointKey(p, c.precision), address)
	return nil
}
