package cache

import (
	"context"
	"database/sql"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// SQLAddressCache is a Postgres-backed cache mapping geohash cells to
// formatted addresses.
type SQLAddressCache struct {
	DB        *sql.DB
	Precision uint
	logger    zerolog.Logger
}

func NewSQLAddressCache(db *sql.DB, precision uint, logger zerolog.Logger) *SQLAddressCache {
	return &SQLAddressCache{DB: db, Precision: precision, logger: logger}
}

// Fetch the cached address for the cell containing c.
func (s *SQLAddressCache) Get(ctx context.Context, c domain.Coordinate) (_ string, _ bool, err error) {
	defer obs.Time(ctx, s.logger, "address.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("address cache: db is nil")
	}

	q := `
	SELECT address
    FROM address_cache
    WHERE cell = $1;
	`

	var addr string
	err = s.DB.QueryRowContext(ctx, q, PointKey(c, s.Precision)).Scan(&addr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get address cache: query address_cache table: %w", err)
	}

	return addr, true, nil
}

// Store a formatted address for the cell containing c.
func (s *SQLAddressCache) Put(ctx context.Context, c domain.Coordinate, address string) error {
	if s.DB == nil {
		return errors.New("address cache: db is nil")
	}

	if strings.TrimSpace(address) == "" {
		return errors.New("insert address cache: empty address")
	}

	q := `
	INSERT INTO address_cache (cell, address)
    VALUES ($1, $2)
	ON CONFLICT (cell) DO UPDATE
	SET address = EXCLUDED.address;
	`

	if _, err := s.DB.ExecContext(ctx, q, PointKey(c, s.Precision), address); err != nil {
		return fmt.Errorf("insert address cache cell=%q: %w", PointKey(c, s.Precision), err)
	}

	return nil
}
