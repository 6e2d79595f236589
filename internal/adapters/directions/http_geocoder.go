package directions

import (
	"context"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type reverseGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

// HTTPGeocoder resolves coordinates to addresses via {base}/geocode?latlng=lat,lon.
// It shares the directions transport, including 429 backoff.
type HTTPGeocoder struct {
	*httpClient
	retries int
}

func NewHTTPGeocoder(cfg Config, retries int, logger zerolog.Logger) (*HTTPGeocoder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("geocoder api key is empty")
	}

	return &HTTPGeocoder{
		httpClient: newHTTPClient(cfg.withDefaults(), logger),
		retries:    retries,
	}, nil
}

// ReverseGeocode returns the provider's formatted address for c.
func (g *HTTPGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) (_ string, err error) {
	defer obs.Time(ctx, g.logger, "geocoder.ReverseGeocode")(&err)

	endpoint := g.baseURL + "/geocode"
	query := map[string]string{
		"latlng": formatFloat(c.Latitude) + "," + formatFloat(c.Longitude),
	}

	resp, err := g.doWithRetry(ctx, g.retries, func() (*http.Request, error) {
		return g.newRequest(ctx, http.MethodGet, endpoint, query)
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return "", fmt.Errorf("no reverse geocode results for %s", c)
	}

	address := strings.TrimSpace(decoded.Results[0].FormattedAddress)
	if address == "" {
		return "", fmt.Errorf("empty reverse geocode result for %s", c)
	}

	return address, nil
}
