package cache

import (
	"delivery-geo-service/internal/domain"

	"github.com/mmcloughlin/geohash"
)

// DefaultPrecision is a 9-character geohash, a cell of roughly 5m x 5m.
const DefaultPrecision uint = 9

// PointKey returns the geohash cell of c at the given precision.
func PointKey(c domain.Coordinate, precision uint) string {
	if precision == 0 || precision > 12 {
		precision = DefaultPrecision
	}
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, precision)
}

// RouteKey identifies a directed start -> end request; points in the same
// cell share a key.
func RouteKey(start, end domain.Coordinate, precision uint) string {
	return PointKey(start, precision) + ":" + PointKey(end, precision)
}
