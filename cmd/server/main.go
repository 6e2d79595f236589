package main

import (
	"context"
	"database/sql"
	"delivery-geo-service/internal/adapters/cache"
	"delivery-geo-service/internal/adapters/directions"
	"delivery-geo-service/internal/adapters/repositories"
	"delivery-geo-service/internal/api"
	"delivery-geo-service/internal/api/handlers"
	"delivery-geo-service/internal/config"
	"delivery-geo-service/internal/geo"
	"delivery-geo-service/internal/platform/db"
	"delivery-geo-service/internal/platform/obs"
	"delivery-geo-service/internal/ports"
	"delivery-geo-service/internal/services"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// main is the application composition root.
// It wires concrete adapters (directions provider, caches) behind ports and starts the HTTP server.
func main() {
	boot := obs.NewLogger("info", false)

	if err := godotenv.Load(); err != nil {
		boot.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}

	logger := obs.NewLogger(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calc := geo.NewCalculator(geo.Config{
		AverageSpeedKmph: cfg.Geo.AverageSpeedKmph,
		MaxIterations:    cfg.Geo.MaxIterations,
		Tolerance:        cfg.Geo.Tolerance,
	})

	provider, geocoder, err := buildProviders(cfg.Directions, logger)
	if err != nil {
		return err
	}

	caches, err := buildCaches(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer caches.close()

	routeSvc := services.NewRouteService(provider, caches.routes, calc, cfg.Directions.Retries, logger)
	addressSvc := services.NewAddressService(geocoder, caches.addresses, cfg.Directions.CountrySuffix, logger)

	router := api.NewRouter(api.Deps{
		Routes:    routeSvc,
		Addresses: addressSvc,
		Checks:    caches.checks,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.Server.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("provider", cfg.Directions.Provider).
			Str("cache", cfg.Cache.Backend).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server stopped gracefully")
	return nil
}

func buildProviders(cfg config.DirectionsConfig, logger zerolog.Logger) (ports.DirectionsProvider, ports.ReverseGeocoder, error) {
	switch cfg.Provider {
	case "google":
		var opts []maps.ClientOption
		if cfg.RateLimit > 0 {
			opts = append(opts, maps.WithRateLimit(int(math.Ceil(cfg.RateLimit))))
		}
		g, err := directions.NewGoogleDirectionsProvider(cfg.APIKey, logger, opts...)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil

	case "mock":
		logger.Warn().Msg("using mock directions provider; no geocoder configured")
		return directions.NewMockDirectionsProvider(nil), nil, nil

	default:
		dc := directions.Config{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Profile:   cfg.Profile,
			Timeout:   cfg.Timeout,
			Backoff:   cfg.Backoff,
			RateLimit: cfg.RateLimit,
		}
		p, err := directions.NewHTTPDirectionsProvider(dc, logger)
		if err != nil {
			return nil, nil, err
		}
		g, err := directions.NewHTTPGeocoder(dc, cfg.Retries, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, g, nil
	}
}

type cacheSet struct {
	routes    ports.RouteCache
	addresses ports.AddressCache
	checks    map[string]handlers.HealthCheck
	closers   []func() error
}

func (c *cacheSet) close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}

func buildCaches(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*cacheSet, error) {
	set := &cacheSet{checks: map[string]handlers.HealthCheck{}}
	prec := cfg.Cache.GeohashPrecision

	switch cfg.Cache.Backend {
	case "none":

	case "redis":
		client, err := db.OpenRedis(ctx, db.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, err
		}
		set.closers = append(set.closers, client.Close)
		set.checks["redis"] = redisCheck(client)
		set.routes = cache.NewRedisRouteCache(client, cfg.Cache.TTL, prec, logger)
		set.addresses = cache.NewMemoryAddressCache(prec)

	case "postgres":
		sqlDB, err := db.Open(ctx, cfg.Postgres.URL, db.PoolOptions{MaxOpenConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		set.closers = append(set.closers, sqlDB.Close)

		if err := repositories.InitSchema(sqlDB); err != nil {
			set.close()
			return nil, err
		}
		set.checks["postgres"] = sqlCheck(sqlDB)
		set.routes = cache.NewSQLRouteCache(sqlDB, cfg.Cache.TTL, prec, logger)
		set.addresses = cache.NewSQLAddressCache(sqlDB, prec, logger)

	default:
		set.routes = cache.NewMemoryRouteCache(cfg.Cache.TTL, prec)
		set.addresses = cache.NewMemoryAddressCache(prec)
	}

	return set, nil
}

func redisCheck(client *redis.Client) handlers.HealthCheck {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

func sqlCheck(sqlDB *sql.DB) handlers.HealthCheck {
	return func(ctx context.Context) error { return sqlDB.PingContext(ctx) }
}
