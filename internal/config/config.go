package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Directions DirectionsConfig
	Geo        GeoConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// DirectionsConfig selects and configures the routing/geocoding provider.
type DirectionsConfig struct {
	Provider      string // "http", "google" or "mock"
	BaseURL       string
	APIKey        string
	Profile       string
	Timeout       time.Duration
	Retries       int
	Backoff       time.Duration
	RateLimit     float64
	CountrySuffix string
}

// GeoConfig overrides the geodesic calculator constants.
type GeoConfig struct {
	AverageSpeedKmph float64
	MaxIterations    int
	Tolerance        float64
}

// CacheConfig selects the route/address cache backend.
type CacheConfig struct {
	Backend          string // memory, redis, postgres or none
	TTL              time.Duration
	GeohashPrecision uint
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type PostgresConfig struct {
	URL      string
	MaxConns int
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

var (
	providers = map[string]bool{"http": true, "google": true, "mock": true}
	backends  = map[string]bool{"memory": true, "redis": true, "postgres": true, "none": true}
)

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_HEADER_TIMEOUT", "5s")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "60s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "60s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("DIRECTIONS_PROVIDER", "http")
	v.SetDefault("DIRECTIONS_BASE_URL", "https://rsapi.goong.io")
	v.SetDefault("DIRECTIONS_API_KEY", "")
	v.SetDefault("DIRECTIONS_PROFILE", "driving")
	v.SetDefault("DIRECTIONS_TIMEOUT", "10s")
	v.SetDefault("DIRECTIONS_RETRIES", 3)
	v.SetDefault("DIRECTIONS_BACKOFF", "1s")
	v.SetDefault("DIRECTIONS_RATE_LIMIT", 0)
	v.SetDefault("GEOCODER_COUNTRY_SUFFIX", ", Vietnam")

	v.SetDefault("GEO_AVERAGE_SPEED_KMPH", 25.0)
	v.SetDefault("GEO_MAX_ITERATIONS", 100)
	v.SetDefault("GEO_TOLERANCE", 1e-12)

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_TTL", "15m")
	v.SetDefault("CACHE_GEOHASH_PRECISION", 9)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("POSTGRES_MAX_CONNS", 10)

	// A missing .env is fine; variables may come from the environment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read .env: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:              v.GetString("SERVER_HOST"),
			Port:              v.GetInt("SERVER_PORT"),
			ReadHeaderTimeout: v.GetDuration("SERVER_READ_HEADER_TIMEOUT"),
			ReadTimeout:       v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:      v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:       v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout:   v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		Directions: DirectionsConfig{
			Provider:      strings.ToLower(v.GetString("DIRECTIONS_PROVIDER")),
			BaseURL:       v.GetString("DIRECTIONS_BASE_URL"),
			APIKey:        v.GetString("DIRECTIONS_API_KEY"),
			Profile:       v.GetString("DIRECTIONS_PROFILE"),
			Timeout:       v.GetDuration("DIRECTIONS_TIMEOUT"),
			Retries:       v.GetInt("DIRECTIONS_RETRIES"),
			Backoff:       v.GetDuration("DIRECTIONS_BACKOFF"),
			RateLimit:     v.GetFloat64("DIRECTIONS_RATE_LIMIT"),
			CountrySuffix: v.GetString("GEOCODER_COUNTRY_SUFFIX"),
		},
		Geo: GeoConfig{
			AverageSpeedKmph: v.GetFloat64("GEO_AVERAGE_SPEED_KMPH"),
			MaxIterations:    v.GetInt("GEO_MAX_ITERATIONS"),
			Tolerance:        v.GetFloat64("GEO_TOLERANCE"),
		},
		Cache: CacheConfig{
			Backend:          strings.ToLower(v.GetString("CACHE_BACKEND")),
			TTL:              v.GetDuration("CACHE_TTL"),
			GeohashPrecision: v.GetUint("CACHE_GEOHASH_PRECISION"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Postgres: PostgresConfig{
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt("POSTGRES_MAX_CONNS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if !providers[c.Directions.Provider] {
		return fmt.Errorf("config: unknown DIRECTIONS_PROVIDER %q", c.Directions.Provider)
	}
	if c.Directions.Provider != "mock" && strings.TrimSpace(c.Directions.APIKey) == "" {
		return fmt.Errorf("config: DIRECTIONS_API_KEY is required for provider %q", c.Directions.Provider)
	}
	if c.Directions.Retries < 0 {
		return fmt.Errorf("config: DIRECTIONS_RETRIES must be >= 0, got %d", c.Directions.Retries)
	}
	if !backends[c.Cache.Backend] {
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "postgres" && strings.TrimSpace(c.Postgres.URL) == "" {
		return fmt.Errorf("config: DATABASE_URL is required for CACHE_BACKEND=postgres")
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
