package main

import (
	"context"
	"database/sql"
	"delivery-geo-service/internal/adapters/repositories"
	"delivery-geo-service/internal/config"
	"delivery-geo-service/internal/platform/db"
	"delivery-geo-service/internal/platform/obs"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// dbtool prepares the Postgres cache tables and optionally prunes stale routes.
func main() {
	prune := flag.Duration("prune", 0, "delete cached routes older than this (0 disables)")
	flag.Parse()

	logger := obs.NewLogger(config.Get("LOG_LEVEL", "info"), true)

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(context.Background(), databaseURL, db.PoolOptions{MaxOpenConns: 2})
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer sqlDB.Close()

	if err := initAndPrune(sqlDB, *prune, logger); err != nil {
		logger.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndPrune(sqlDB *sql.DB, maxAge time.Duration, logger zerolog.Logger) error {
	logger.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(sqlDB); err != nil {
		return err
	}
	logger.Info().Msg("schema ready")

	if maxAge <= 0 {
		return nil
	}

	n, err := repositories.PruneRouteCache(sqlDB, int64(maxAge/time.Second))
	if err != nil {
		return err
	}
	logger.Info().Int64("rows", n).Dur("max_age", maxAge).Msg("pruned route cache")

	return nil
}
