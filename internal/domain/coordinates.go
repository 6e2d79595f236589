package domain

import "fmt"

// Immutable geographic coordinate (latitude, longitude) in decimal degrees.
// Values are passed by copy; nothing in the service retains a Coordinate
// after a call returns.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinate) LonLat() []float64 { return []float64{c.Longitude, c.Latitude} }

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Latitude, c.Longitude)
}
