package api

import (
	"bytes"
	"context"
	"delivery-geo-service/internal/adapters/cache"
	"delivery-geo-service/internal/adapters/directions"
	"delivery-geo-service/internal/api/dto"
	"delivery-geo-service/internal/api/handlers"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/services"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geocoderFunc func(ctx context.Context, c domain.Coordinate) (string, error)

func (f geocoderFunc) ReverseGeocode(ctx context.Context, c domain.Coordinate) (string, error) {
	return f(ctx, c)
}

var (
	origin = domain.Coordinate{Latitude: 0, Longitude: 0}
	dest   = domain.Coordinate{Latitude: 0, Longitude: 1}
	detour = domain.Coordinate{Latitude: 0, Longitude: 2}
)

func newTestRouter(t *testing.T, geocoder geocoderFunc, checks map[string]handlers.HealthCheck) http.Handler {
	t.Helper()

	provider := directions.NewMockDirectionsProvider([]directions.MockPair{
		{From: origin, To: dest, Routes: []domain.Route{{origin, detour, dest}, {origin, dest}}},
	})
	routes := services.NewRouteService(provider, cache.NewMemoryRouteCache(time.Minute, cache.DefaultPrecision), nil, 3, zerolog.Nop())

	var addresses *services.AddressService
	if geocoder != nil {
		addresses = services.NewAddressService(geocoder, nil, ", Vietnam", zerolog.Nop())
	} else {
		addresses = services.NewAddressService(nil, nil, ", Vietnam", zerolog.Nop())
	}

	return NewRouter(Deps{Routes: routes, Addresses: addresses, Checks: checks}, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

const pairBody = `{"start":{"latitude":0,"longitude":0},"end":{"latitude":0,"longitude":1}}`

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestHealth_FailingCheck(t *testing.T) {
	h := newTestRouter(t, nil, map[string]handlers.HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	res := decode[map[string]string](t, rec)
	assert.Equal(t, "degraded", res["status"])
	assert.Equal(t, "connection refused", res["redis"])
}

func TestDistance(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/distance", pairBody)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.DistanceResponse](t, rec)
	assert.InDelta(t, 111.31949, res.DistanceKm, 1e-5)
	assert.Equal(t, 268, res.TravelMinutes)
	assert.Equal(t, "4 giờ 28 phút", res.TravelTime)
}

func TestDistance_BadRequests(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	cases := []struct {
		name, body, detail string
	}{
		{"latitude out of range", `{"start":{"latitude":91,"longitude":0},"end":{"latitude":0,"longitude":1}}`, "start.latitude must be at most 90"},
		{"longitude out of range", `{"start":{"latitude":0,"longitude":0},"end":{"latitude":0,"longitude":-180.5}}`, "end.longitude must be at least -180"},
		{"missing end", `{"start":{"latitude":0,"longitude":0}}`, "end is required"},
		{"missing latitude", `{"start":{"longitude":0},"end":{"latitude":0,"longitude":1}}`, "start.latitude is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/distance", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			res := decode[dto.ErrorResponse](t, rec)
			assert.Equal(t, "validation failed", res.Error)
			assert.Contains(t, res.Details, tc.detail)
		})
	}
}

func TestDistance_MalformedBody(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	for _, body := range []string{
		`{"start":`,
		`{"start":{"latitude":0,"longitude":0},"end":{"latitude":0,"longitude":1},"extra":1}`,
		pairBody + pairBody,
	} {
		rec := do(t, h, http.MethodPost, "/v1/distance", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestDistance_DoesNotConverge(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/distance",
		`{"start":{"latitude":0,"longitude":0},"end":{"latitude":0.5,"longitude":179.7}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDistance_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	for _, target := range []string{"/v1/distance", "/v1/routes", "/v1/routes/optimal", "/v1/address/format"} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
		assert.Equal(t, "method not allowed", decode[dto.ErrorResponse](t, rec).Error, target)
	}

	rec := do(t, h, http.MethodPost, "/v1/address/reverse", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestV1NotFound(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/nope", pairBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[dto.ErrorResponse](t, rec).Error)
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/routes", pairBody)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.RoutesResponse](t, rec)
	require.Len(t, res.Routes, 2)
	assert.Equal(t, domain.Route{origin, dest}, res.Routes[1])
}

func TestRoutes_UnknownPairIsEmpty(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/routes",
		`{"start":{"latitude":10,"longitude":106},"end":{"latitude":11,"longitude":106},"retries":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"routes":[]}`, rec.Body.String())
}

func TestRoutes_RetriesBounds(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/routes",
		`{"start":{"latitude":0,"longitude":0},"end":{"latitude":0,"longitude":1},"retries":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimal(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/routes/optimal", pairBody)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.OptimalRouteResponse](t, rec)
	assert.Equal(t, "route", res.Source)
	assert.Equal(t, domain.Route{origin, dest}, res.Route)
	assert.InDelta(t, 111.31949, res.DistanceKm, 1e-5)
	assert.Equal(t, "4 giờ 28 phút", res.TravelTime)
}

func TestOptimal_StraightLineFallback(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/routes/optimal",
		`{"start":{"latitude":0,"longitude":1},"end":{"latitude":0,"longitude":0}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.OptimalRouteResponse](t, rec)
	assert.Equal(t, "straight_line", res.Source)
	assert.Equal(t, domain.Route{dest, origin}, res.Route)
}

func TestFormatAddress(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/address/format",
		`{"address":"1 Lê Lợi, Bến Nghé, Quận 1, 700000, Vietnam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 Lê Lợi, Bến Nghé, Quận 1", decode[dto.AddressResponse](t, rec).Address)
}

func TestReverseAddress(t *testing.T) {
	var got domain.Coordinate
	h := newTestRouter(t, func(_ context.Context, c domain.Coordinate) (string, error) {
		got = c
		return "12 Lý Thái Tổ, Hoàn Kiếm, Hà Nội, 100000, Vietnam", nil
	}, nil)

	rec := do(t, h, http.MethodGet, "/v1/address/reverse?lat=21.0285&lon=105.8542", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12 Lý Thái Tổ, Hoàn Kiếm, Hà Nội", decode[dto.AddressResponse](t, rec).Address)
	assert.Equal(t, domain.Coordinate{Latitude: 21.0285, Longitude: 105.8542}, got)
}

func TestReverseAddress_Errors(t *testing.T) {
	upstream := newTestRouter(t, func(context.Context, domain.Coordinate) (string, error) {
		return "", errors.New("status 403")
	}, nil)

	assert.Equal(t, http.StatusBadRequest, do(t, upstream, http.MethodGet, "/v1/address/reverse?lat=abc&lon=1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, upstream, http.MethodGet, "/v1/address/reverse?lat=1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, upstream, http.MethodGet, "/v1/address/reverse?lat=95&lon=1", "").Code)
	assert.Equal(t, http.StatusBadGateway, do(t, upstream, http.MethodGet, "/v1/address/reverse?lat=1&lon=1", "").Code)

	none := newTestRouter(t, nil, nil)
	assert.Equal(t, http.StatusNotImplemented, do(t, none, http.MethodGet, "/v1/address/reverse?lat=1&lon=1", "").Code)
}

func TestRequestID(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestNotFound(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rec := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[dto.ErrorResponse](t, rec).Error)
}
