package directions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// IsRateLimited reports whether err is a provider 429 response.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
}

// sleepFunc waits for d or until ctx is done.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// httpClient is the transport shared by the directions and geocoding adapters.
type httpClient struct {
	session *http.Client
	baseURL string
	apiKey  string
	backoff time.Duration
	limiter *rate.Limiter
	sleep   sleepFunc
	logger  zerolog.Logger
}

func newHTTPClient(cfg Config, logger zerolog.Logger) *httpClient {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &httpClient{
		session: &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		backoff: cfg.Backoff,
		limiter: rate.NewLimiter(limit, 1),
		sleep:   sleepContext,
		logger:  logger,
	}
}

func (c *httpClient) newRequest(
	ctx context.Context,
	method string,
	endpoint string,
	query map[string]string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("api_key", c.apiKey)
	for k, v := range query {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *httpClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry re-attempts rate-limited (429) requests up to retries times,
// waiting backoff, 2*backoff, 4*backoff, ... between attempts. Any other
// failure ends the loop immediately. Waiting respects ctx cancellation.
func (c *httpClient) doWithRetry(
	ctx context.Context,
	retries int,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	if retries < 0 {
		retries = 0
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}

		if !IsRateLimited(err) || attempt >= retries {
			return nil, err
		}

		delay := c.backoff << attempt
		c.logger.Warn().
			Str("path", req.URL.Path).
			Int("attempt", attempt+1).
			Int("retries_left", retries-attempt).
			Dur("backoff", delay).
			Msg("provider rate limited, backing off")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}
