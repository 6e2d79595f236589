package cache

import (
	"context"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "routes:"

// RedisRouteCache stores provider routes in Redis with a TTL.
type RedisRouteCache struct {
	client    *redis.Client
	ttl       time.Duration
	precision uint
	logger    zerolog.Logger
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration, precision uint, logger zerolog.Logger) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl, precision: precision, logger: logger}
}

func (c *RedisRouteCache) key(start, end domain.Coordinate) string {
	return redisKeyPrefix + RouteKey(start, end, c.precision)
}

func (c *RedisRouteCache) Get(ctx context.Context, start, end domain.Coordinate) (_ []domain.Route, _ bool, err error) {
	defer obs.Time(ctx, c.logger, "route.cache.redis.Get")(&err)

	if c.client == nil {
		return nil, false, errors.New("redis route cache: client is nil")
	}

	b, err := c.client.Get(ctx, c.key(start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis route cache get: %w", err)
	}

	routes, err := decodeRoutes(b)
	if err != nil {
		return nil, false, fmt.Errorf("redis route cache get: %w", err)
	}
	return routes, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, start, end domain.Coordinate, routes []domain.Route) error {
	if c.client == nil {
		return errors.New("redis route cache: client is nil")
	}

	b, err := encodeRoutes(routes)
	if err != nil {
		return fmt.Errorf("redis route cache put: %w", err)
	}

	if err := c.client.Set(ctx, c.key(start, end), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis route cache put: %w", err)
	}
	return nil
}
