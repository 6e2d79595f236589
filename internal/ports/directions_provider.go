package ports

import (
	"context"
	"delivery-geo-service/internal/domain"
)

// Contract for retrieving candidate driving routes between two points.
type DirectionsProvider interface {
	// Return alternative routes from start to end. retries bounds how many
	// times a rate-limited request is re-attempted.
	Routes(ctx context.Context, start, end domain.Coordinate, retries int) ([]domain.Route, error)
}
