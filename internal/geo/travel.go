package geo

import (
	"fmt"
	"math"
)

// TravelTime converts a distance in kilometers to whole minutes at the
// configured average speed, rounding up.
//
// Negative and NaN distances yield 0. Results that do not fit an int,
// including +Inf, saturate at math.MaxInt.
func (c *Calculator) TravelTime(distanceKm float64) int {
	if math.IsInf(distanceKm, 1) {
		return math.MaxInt
	}
	if !(distanceKm > 0) {
		return 0
	}

	minutes := math.Ceil(distanceKm / c.cfg.AverageSpeedKmph * 60)
	if minutes >= math.MaxInt {
		return math.MaxInt
	}
	return int(minutes)
}

// CalculateTravelTime is TravelTime at the default 25 km/h.
func CalculateTravelTime(distanceKm float64) int {
	return defaultCalculator.TravelTime(distanceKm)
}

// FormatTime renders minutes as "H giờ M phút" from one hour upwards and
// as "M phút" below that.
func FormatTime(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%d giờ %d phút", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d phút", minutes)
}
