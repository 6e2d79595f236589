package geo

import (
	"delivery-geo-service/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Coordinate
		want bool
	}{
		{"origin", domain.Coordinate{Latitude: 0, Longitude: 0}, true},
		{"saigon", domain.Coordinate{Latitude: 10.7769, Longitude: 106.7009}, true},
		{"north pole", domain.Coordinate{Latitude: 90, Longitude: 0}, true},
		{"south pole", domain.Coordinate{Latitude: -90, Longitude: 0}, true},
		{"antimeridian east", domain.Coordinate{Latitude: 0, Longitude: 180}, true},
		{"antimeridian west", domain.Coordinate{Latitude: 0, Longitude: -180}, true},
		{"latitude above range", domain.Coordinate{Latitude: 90.000001, Longitude: 0}, false},
		{"latitude below range", domain.Coordinate{Latitude: -91, Longitude: 0}, false},
		{"longitude above range", domain.Coordinate{Latitude: 0, Longitude: 180.5}, false},
		{"longitude below range", domain.Coordinate{Latitude: 0, Longitude: -181}, false},
		{"nan latitude", domain.Coordinate{Latitude: math.NaN(), Longitude: 0}, false},
		{"inf longitude", domain.Coordinate{Latitude: 0, Longitude: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCoordinate(tt.c))
		})
	}
}

func TestIsValidCoordinatePtr(t *testing.T) {
	assert.False(t, IsValidCoordinatePtr(nil))
	assert.True(t, IsValidCoordinatePtr(&domain.Coordinate{Latitude: 21.0285, Longitude: 105.8542}))
	assert.False(t, IsValidCoordinatePtr(&domain.Coordinate{Latitude: 100}))
}

func TestIsValidCoordinate_RangeSweep(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for lon := -180.0; lon <= 180; lon += 15 {
			c := domain.Coordinate{Latitude: lat, Longitude: lon}
			if !IsValidCoordinate(c) {
				t.Fatalf("IsValidCoordinate(%s) = false, want true", c)
			}
		}
	}
}
