package geo

import (
	"delivery-geo-service/internal/domain"
	"fmt"
)

// FindOptimalRoute picks the route with the strictly smallest cumulative
// geodesic length. Ties keep the first route seen. An empty input yields an
// empty route with zero distance.
func (c *Calculator) FindOptimalRoute(routes []domain.Route) (domain.OptimalRouteResult, error) {
	if len(routes) == 0 {
		return domain.OptimalRouteResult{Route: domain.Route{}, Distance: 0}, nil
	}

	bestIdx := -1
	bestDistance := 0.0

	for i, r := range routes {
		d, err := c.RouteDistance(r)
		if err != nil {
			return domain.OptimalRouteResult{}, fmt.Errorf("find optimal route: route %d: %w", i, err)
		}

		if bestIdx == -1 || d < bestDistance {
			bestIdx = i
			bestDistance = d
		}
	}

	return domain.OptimalRouteResult{
		Route:    routes[bestIdx],
		Distance: bestDistance,
	}, nil
}

// FindOptimalRoute is Calculator.FindOptimalRoute on the default calculator.
func FindOptimalRoute(routes []domain.Route) (domain.OptimalRouteResult, error) {
	return defaultCalculator.FindOptimalRoute(routes)
}
