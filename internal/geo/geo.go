// Package geo implements the geodesic core of the delivery platform:
// coordinate validation, Vincenty inverse distance on the WGS-84
// ellipsoid, fixed-speed travel time estimation, shortest-route
// selection and display formatting of reverse-geocoded addresses.
//
// Everything here is synchronous and free of shared mutable state; a
// Calculator may be used from any number of goroutines.
package geo

import "errors"

var (
	// ErrInvalidCoordinate is returned when a coordinate is non-finite or
	// outside [-90, 90] latitude / [-180, 180] longitude.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrDistanceCalculation is returned when the Vincenty iteration does not
	// converge. This is a known limitation of the method for nearly antipodal
	// points.
	ErrDistanceCalculation = errors.New("distance calculation failed")
)

const (
	// WGS-84 semi-major axis in meters.
	WGS84SemiMajorAxis = 6378137.0
	// WGS-84 flattening.
	WGS84Flattening = 1 / 298.257223563

	DefaultAverageSpeedKmph = 25.0
	DefaultMaxIterations    = 100
	DefaultTolerance        = 1e-12
)

// Config holds the ellipsoid and estimation constants used by a Calculator.
type Config struct {
	SemiMajorAxis    float64 // meters
	Flattening       float64
	AverageSpeedKmph float64
	MaxIterations    int
	Tolerance        float64 // radians, on successive lambda values
}

// DefaultConfig returns the WGS-84 ellipsoid with a 25 km/h average speed.
func DefaultConfig() Config {
	return Config{
		SemiMajorAxis:    WGS84SemiMajorAxis,
		Flattening:       WGS84Flattening,
		AverageSpeedKmph: DefaultAverageSpeedKmph,
		MaxIterations:    DefaultMaxIterations,
		Tolerance:        DefaultTolerance,
	}
}

// Calculator computes distances and travel times for a fixed Config.
type Calculator struct {
	cfg Config
	b   float64
}

// NewCalculator returns a Calculator for cfg. Zero fields fall back to the
// WGS-84 / 25 km/h defaults.
func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.SemiMajorAxis <= 0 {
		cfg.SemiMajorAxis = def.SemiMajorAxis
	}
	if cfg.Flattening <= 0 || cfg.Flattening >= 1 {
		cfg.Flattening = def.Flattening
	}
	if cfg.AverageSpeedKmph <= 0 {
		cfg.AverageSpeedKmph = def.AverageSpeedKmph
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}

	return &Calculator{
		cfg: cfg,
		b:   (1 - cfg.Flattening) * cfg.SemiMajorAxis,
	}
}

// Config returns the effective configuration, defaults applied.
func (c *Calculator) Config() Config { return c.cfg }

var defaultCalculator = NewCalculator(DefaultConfig())

// Default returns the shared WGS-84 calculator used by the package-level helpers.
func Default() *Calculator { return defaultCalculator }
