package geo

import (
	"delivery-geo-service/internal/domain"
	"math"
)

// IsValidCoordinate reports whether c has finite components within
// [-90, 90] latitude and [-180, 180] longitude. Boundaries are inclusive.
func IsValidCoordinate(c domain.Coordinate) bool {
	if !isFinite(c.Latitude) || !isFinite(c.Longitude) {
		return false
	}

	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// IsValidCoordinatePtr is IsValidCoordinate for optional inputs; nil is invalid.
func IsValidCoordinatePtr(c *domain.Coordinate) bool {
	return c != nil && IsValidCoordinate(*c)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
