package ports

import (
	"context"
	"delivery-geo-service/internal/domain"
)

// Contract for resolving a coordinate to a free-text address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c domain.Coordinate) (string, error)
}

// Cache of formatted addresses keyed by location.
type AddressCache interface {
	Get(ctx context.Context, c domain.Coordinate) (address string, ok bool, err error)
	Put(ctx context.Context, c domain.Coordinate, address string) error
}
