package directions

import (
	"context"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://rsapi.goong.io"
	DefaultProfile = "driving"
	DefaultRetries = 3
	DefaultBackoff = time.Second
	DefaultTimeout = 10 * time.Second
)

// Config configures the HTTP directions and geocoding adapters.
type Config struct {
	BaseURL   string
	APIKey    string
	Profile   string
	Timeout   time.Duration
	Backoff   time.Duration // first rate-limit wait; doubled on each retry
	RateLimit float64       // requests per second, 0 = unlimited
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	return c
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// HTTPDirectionsProvider implements DirectionsProvider against a
// GeoJSON directions endpoint:
//
//	GET {base}/directions/{profile}/{lon},{lat};{lon},{lat}
//	    ?api_key=...&overview=full&geometries=geojson&alternatives=true
//
// Rate-limited (429) responses are retried with exponential backoff.
// The provider is safe for concurrent use.
type HTTPDirectionsProvider struct {
	*httpClient
	profile string
}

func NewHTTPDirectionsProvider(cfg Config, logger zerolog.Logger) (*HTTPDirectionsProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("directions api key is empty")
	}

	cfg = cfg.withDefaults()
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("directions base url: %w", err)
	}

	return &HTTPDirectionsProvider{
		httpClient: newHTTPClient(cfg, logger),
		profile:    cfg.Profile,
	}, nil
}

// Routes fetches alternative routes from start to end, converting provider
// [lon, lat] geometry into latitude-first Routes.
func (p *HTTPDirectionsProvider) Routes(
	ctx context.Context,
	start domain.Coordinate,
	end domain.Coordinate,
	retries int,
) (_ []domain.Route, err error) {
	defer obs.Time(ctx, p.logger, "directions.Routes")(&err)

	endpoint := fmt.Sprintf(
		"%s/directions/%s/%s,%s;%s,%s",
		p.baseURL, p.profile,
		formatFloat(start.Longitude), formatFloat(start.Latitude),
		formatFloat(end.Longitude), formatFloat(end.Latitude),
	)

	query := map[string]string{
		"overview":     "full",
		"geometries":   "geojson",
		"alternatives": "true",
	}

	resp, err := p.doWithRetry(ctx, retries, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodGet, endpoint, query)
	})
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	routes := make([]domain.Route, 0, len(decoded.Routes))
	for i, r := range decoded.Routes {
		route, err := routeFromLonLat(r.Geometry.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("directions route %d: %w", i, err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// GetRoutes is Routes with every failure collapsed into an empty result.
// It never returns nil.
func (p *HTTPDirectionsProvider) GetRoutes(
	ctx context.Context,
	start domain.Coordinate,
	end domain.Coordinate,
	retries int,
) []domain.Route {
	routes, err := p.Routes(ctx, start, end, retries)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("req_id", obs.RequestID(ctx)).
			Stringer("start", start).
			Stringer("end", end).
			Msg("no routes from directions provider")
		return []domain.Route{}
	}
	return routes
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
