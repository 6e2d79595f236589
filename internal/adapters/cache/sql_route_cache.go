package cache

import (
	"context"
	"database/sql"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SQLRouteCache is a Postgres-backed cache of provider routes keyed by the
// geohash cells of the start and end points.
type SQLRouteCache struct {
	DB        *sql.DB
	TTL       time.Duration
	Precision uint
	logger    zerolog.Logger
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration, precision uint, logger zerolog.Logger) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl, Precision: precision, logger: logger}
}

// Fetch cached routes younger than TTL.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	start domain.Coordinate,
	end domain.Coordinate,
) (_ []domain.Route, _ bool, err error) {
	defer obs.Time(ctx, s.logger, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT routes
    FROM route_cache
    WHERE start_cell = $1
        AND end_cell = $2
        AND ($3::bigint = 0 OR fetched_at > now() - make_interval(secs => $3::bigint));
	`

	var payload []byte
	err = s.DB.QueryRowContext(
		ctx, q,
		PointKey(start, s.Precision), PointKey(end, s.Precision), int64(s.TTL.Seconds()),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	routes, err := decodeRoutes(payload)
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}
	return routes, true, nil
}

// Store routes for a start/end pair, replacing any previous entry.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	start domain.Coordinate,
	end domain.Coordinate,
	routes []domain.Route,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	payload, err := encodeRoutes(routes)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	q := `
	INSERT INTO route_cache (start_cell, end_cell, routes, fetched_at)
    VALUES ($1, $2, $3, now())
	ON CONFLICT (start_cell, end_cell) DO UPDATE
	SET routes = EXCLUDED.routes,
		fetched_at = EXCLUDED.fetched_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, PointKey(start, s.Precision), PointKey(end, s.Precision), payload); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
