package services

import (
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/geo"
	"fmt"
)

// TrackService summarizes recorded GPS tracks.
type TrackService struct {
	calc *geo.Calculator
}

func NewTrackService(calc *geo.Calculator) *TrackService {
	if calc == nil {
		calc = geo.Default()
	}
	return &TrackService{calc: calc}
}

// Summarize sums the geodesic distance between consecutive valid points.
// Invalid fixes are skipped and counted.
func (s *TrackService) Summarize(points []domain.Coordinate) (domain.TrackSummary, error) {
	valid := make(domain.Route, 0, len(points))
	for _, p := range points {
		if geo.IsValidCoordinate(p) {
			valid = append(valid, p)
		}
	}

	km, err := s.calc.RouteDistance(valid)
	if err != nil {
		return domain.TrackSummary{}, fmt.Errorf("summarize track: %w", err)
	}

	minutes := s.calc.TravelTime(km)
	return domain.TrackSummary{
		Points:        len(valid),
		Skipped:       len(points) - len(valid),
		DistanceKm:    km,
		TravelMinutes: minutes,
		TravelLabel:   geo.FormatTime(minutes),
	}, nil
}
