package directions

import (
	"context"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/platform/obs"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// GoogleDirectionsProvider implements DirectionsProvider and ReverseGeocoder
// using the Google Maps Platform client. Throttling is delegated to the
// client's own rate limiter, so the retries argument is not used.
type GoogleDirectionsProvider struct {
	client *maps.Client
	logger zerolog.Logger
}

func NewGoogleDirectionsProvider(apiKey string, logger zerolog.Logger, opts ...maps.ClientOption) (*GoogleDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	c, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("google maps client: %w", err)
	}

	return &GoogleDirectionsProvider{client: c, logger: logger}, nil
}

func (g *GoogleDirectionsProvider) Routes(
	ctx context.Context,
	start domain.Coordinate,
	end domain.Coordinate,
	_ int,
) (_ []domain.Route, err error) {
	defer obs.Time(ctx, g.logger, "google.Routes")(&err)

	req := &maps.DirectionsRequest{
		Origin:       latLngString(start),
		Destination:  latLngString(end),
		Mode:         maps.TravelModeDriving,
		Alternatives: true,
	}

	resp, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("google directions: %w", err)
	}

	routes := make([]domain.Route, 0, len(resp))
	for i := range resp {
		points, err := resp[i].OverviewPolyline.Decode()
		if err != nil {
			return nil, fmt.Errorf("google directions route %d: decode polyline: %w", i, err)
		}

		route := make(domain.Route, 0, len(points))
		for _, p := range points {
			route = append(route, domain.Coordinate{Latitude: p.Lat, Longitude: p.Lng})
		}
		routes = append(routes, route)
	}

	return routes, nil
}

func (g *GoogleDirectionsProvider) ReverseGeocode(ctx context.Context, c domain.Coordinate) (_ string, err error) {
	defer obs.Time(ctx, g.logger, "google.ReverseGeocode")(&err)

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: c.Latitude, Lng: c.Longitude},
	})
	if err != nil {
		return "", fmt.Errorf("google reverse geocode: %w", err)
	}

	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", fmt.Errorf("no reverse geocode results for %s", c)
	}

	return results[0].FormattedAddress, nil
}

func latLngString(c domain.Coordinate) string {
	return formatFloat(c.Latitude) + "," + formatFloat(c.Longitude)
}
