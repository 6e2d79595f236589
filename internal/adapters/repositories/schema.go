package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema backing the route and address caches.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range SchemaStatements() {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SchemaStatements returns the DDL applied by InitSchema, in order.
func SchemaStatements() []string {
	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        start_cell TEXT NOT NULL,
        end_cell TEXT NOT NULL,
        routes JSONB NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (start_cell, end_cell)
    );
	`

	createAddressCacheQuery := `
	CREATE TABLE IF NOT EXISTS address_cache (
        cell TEXT PRIMARY KEY,
        address TEXT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_fetched_at
    ON route_cache(fetched_at);
	`

	return []string{
		createRouteCacheQuery,
		createAddressCacheQuery,
		createIndexQuery,
	}
}

// PruneRouteCache deletes route cache rows fetched before the given age in seconds.
func PruneRouteCache(db *sql.DB, maxAgeSeconds int64) (int64, error) {
	if db == nil {
		return 0, errors.New("prune route cache: DB is nil")
	}

	res, err := db.Exec(`
	DELETE FROM route_cache
    WHERE fetched_at < now() - make_interval(secs => $1::bigint);
	`, maxAgeSeconds)
	if err != nil {
		return 0, fmt.Errorf("prune route cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune route cache: rows affected: %w", err)
	}
	return n, nil
}
