package dto

import "delivery-geo-service/internal/domain"

type DistanceResponse struct {
	DistanceKm    float64 `json:"distance_km"`
	TravelMinutes int     `json:"travel_minutes"`
	TravelTime    string  `json:"travel_time"`
}

type RoutesResponse struct {
	Routes []domain.Route `json:"routes"`
}

type OptimalRouteResponse struct {
	Source        string       `json:"source"`
	DistanceKm    float64      `json:"distance_km"`
	TravelMinutes int          `json:"travel_minutes"`
	TravelTime    string       `json:"travel_time"`
	Route         domain.Route `json:"route"`
}

type AddressResponse struct {
	Address string `json:"address"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
