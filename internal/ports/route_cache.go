package ports

import (
	"context"
	"delivery-geo-service/internal/domain"
)

// Cache of provider routes keyed by start/end location.
type RouteCache interface {
	// Return cached routes; ok is false on a miss.
	Get(ctx context.Context, start, end domain.Coordinate) (routes []domain.Route, ok bool, err error)
	Put(ctx context.Context, start, end domain.Coordinate, routes []domain.Route) error
}
