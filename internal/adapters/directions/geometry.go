package directions

import (
	"delivery-geo-service/internal/domain"
	"fmt"
	"math"
)

// lonLatToCoordinate converts a provider [lon, lat] pair into a Coordinate.
// Providers emit GeoJSON axis order; everything downstream is latitude-first.
func lonLatToCoordinate(pair []float64) (domain.Coordinate, error) {
	if len(pair) < 2 {
		return domain.Coordinate{}, fmt.Errorf("invalid coordinate pair: want [lon, lat], got %d values", len(pair))
	}

	lon, lat := pair[0], pair[1]
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return domain.Coordinate{}, fmt.Errorf("invalid coordinate pair: NaN component")
	}

	return domain.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// routeFromLonLat converts a GeoJSON LineString coordinate list into a Route.
func routeFromLonLat(coords [][]float64) (domain.Route, error) {
	route := make(domain.Route, 0, len(coords))
	for i, pair := range coords {
		c, err := lonLatToCoordinate(pair)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		route = append(route, c)
	}
	return route, nil
}
