package directions

import (
	"context"
	"delivery-geo-service/internal/domain"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRoutesBody = `{
  "routes": [
    {"distance": 1200, "duration": 300,
     "geometry": {"type": "LineString", "coordinates": [[106.7009, 10.7769], [106.7020, 10.7780], [106.7100, 10.7800]]}},
    {"distance": 900, "duration": 280,
     "geometry": {"type": "LineString", "coordinates": [[106.7009, 10.7769], [106.7100, 10.7800]]}}
  ]
}`

var (
	benThanh = domain.Coordinate{Latitude: 10.7769, Longitude: 106.7009}
	thuThiem = domain.Coordinate{Latitude: 10.7800, Longitude: 106.7100}
)

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*HTTPDirectionsProvider, *sleepRecorder) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewHTTPDirectionsProvider(Config{BaseURL: srv.URL, APIKey: "test-key"}, zerolog.Nop())
	require.NoError(t, err)

	rec := &sleepRecorder{}
	p.sleep = rec.sleep
	return p, rec
}

func TestNewHTTPDirectionsProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewHTTPDirectionsProvider(Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestHTTPDirectionsProvider_Routes_RequestShape(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		q := r.URL.Query()
		gotQuery = map[string]string{
			"api_key":      q.Get("api_key"),
			"overview":     q.Get("overview"),
			"geometries":   q.Get("geometries"),
			"alternatives": q.Get("alternatives"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoRoutesBody))
	})

	routes, err := p.Routes(context.Background(), benThanh, thuThiem, DefaultRetries)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "/directions/driving/106.7009,10.7769;106.71,10.78", gotPath)
	assert.Equal(t, map[string]string{
		"api_key":      "test-key",
		"overview":     "full",
		"geometries":   "geojson",
		"alternatives": "true",
	}, gotQuery)
}

func TestHTTPDirectionsProvider_Routes_AxisOrder(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(twoRoutesBody))
	})

	routes, err := p.Routes(context.Background(), benThanh, thuThiem, 0)
	require.NoError(t, err)

	require.Len(t, routes[0], 3)
	assert.Equal(t, domain.Coordinate{Latitude: 10.7769, Longitude: 106.7009}, routes[0][0])
	assert.Equal(t, domain.Coordinate{Latitude: 10.7780, Longitude: 106.7020}, routes[0][1])
	assert.Equal(t, domain.Route{benThanh, thuThiem}, routes[1])
}

func TestHTTPDirectionsProvider_RetriesRateLimitWithBackoff(t *testing.T) {
	var calls int32
	p, rec := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(twoRoutesBody))
	})

	routes := p.GetRoutes(context.Background(), benThanh, thuThiem, 3)

	assert.Len(t, routes, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, rec.delays)
}

func TestHTTPDirectionsProvider_RateLimitExhausted(t *testing.T) {
	var calls int32
	p, rec := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.Routes(context.Background(), benThanh, thuThiem, 3)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, rec.delays)

	routes := p.GetRoutes(context.Background(), benThanh, thuThiem, 3)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}

func TestHTTPDirectionsProvider_OtherErrorsAreNotRetried(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		var calls int32
		p, rec := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "nope", code)
		})

		_, err := p.Routes(context.Background(), benThanh, thuThiem, 3)

		var se *StatusError
		require.True(t, errors.As(err, &se), "status %d", code)
		assert.Equal(t, code, se.Code)
		assert.Equal(t, "nope", se.Body)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "status %d", code)
		assert.Empty(t, rec.delays)
	}
}

func TestHTTPDirectionsProvider_ZeroRetries(t *testing.T) {
	var calls int32
	p, rec := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	assert.Empty(t, p.GetRoutes(context.Background(), benThanh, thuThiem, 0))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, rec.delays)
}

func TestHTTPDirectionsProvider_BadPayload(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes": [{"geometry": {"coordinates": [[106.7]]}}]}`))
	})
	_, err := p.Routes(context.Background(), benThanh, thuThiem, 0)
	assert.Error(t, err)

	p, _ = newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	assert.Empty(t, p.GetRoutes(context.Background(), benThanh, thuThiem, 0))
}

func TestHTTPDirectionsProvider_BackoffRespectsCancellation(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, err := NewHTTPDirectionsProvider(Config{BaseURL: srv.URL, APIKey: "k", Backoff: time.Hour}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = p.Routes(ctx, benThanh, thuThiem, 3)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
