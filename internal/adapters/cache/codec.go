package cache

import (
	"delivery-geo-service/internal/domain"
	"encoding/json"
	"fmt"
)

// Routes are stored as [[[lat, lon], ...], ...] to keep payloads small.
func encodeRoutes(routes []domain.Route) ([]byte, error) {
	out := make([][][2]float64, 0, len(routes))
	for _, r := range routes {
		pts := make([][2]float64, 0, len(r))
		for _, c := range r {
			pts = append(pts, [2]float64{c.Latitude, c.Longitude})
		}
		out = append(out, pts)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode routes: %w", err)
	}
	return b, nil
}

func decodeRoutes(b []byte) ([]domain.Route, error) {
	var raw [][][2]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}

	routes := make([]domain.Route, 0, len(raw))
	for _, pts := range raw {
		r := make(domain.Route, 0, len(pts))
		for _, p := range pts {
			r = append(r, domain.Coordinate{Latitude: p[0], Longitude: p[1]})
		}
		routes = append(routes, r)
	}
	return routes, nil
}
