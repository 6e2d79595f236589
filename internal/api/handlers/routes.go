package handlers

import (
	"delivery-geo-service/internal/api/dto"
	"delivery-geo-service/internal/services"
	"net/http"
)

// RouteHandler exposes distance and route selection endpoints.
type RouteHandler struct {
	Service *services.RouteService
}

// Distance returns the straight-line geodesic distance and travel time.
func (h *RouteHandler) Distance(w http.ResponseWriter, r *http.Request) {
	var req dto.PairRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	est, err := h.Service.Estimate(toCoordinate(req.Start), toCoordinate(req.End))
	if err != nil {
		writeServiceError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		DistanceKm:    est.DistanceKm,
		TravelMinutes: est.TravelMinutes,
		TravelTime:    est.TravelLabel,
	})
}

// Routes returns the provider's candidate routes. Provider failures yield
// an empty list, not an error.
func (h *RouteHandler) Routes(w http.ResponseWriter, r *http.Request) {
	var req dto.RoutesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	retries := h.Service.DefaultRetries()
	if req.Retries != nil {
		retries = *req.Retries
	}

	routes := h.Service.GetRoutes(r.Context(), toCoordinate(req.Start), toCoordinate(req.End), retries)

	writeJSON(w, r, http.StatusOK, dto.RoutesResponse{Routes: routes})
}

// Optimal returns the shortest provider route, or the straight line when the
// provider has none.
func (h *RouteHandler) Optimal(w http.ResponseWriter, r *http.Request) {
	var req dto.PairRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	est, err := h.Service.OptimalRoute(r.Context(), toCoordinate(req.Start), toCoordinate(req.End))
	if err != nil {
		writeServiceError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimalRouteResponse{
		Source:        string(est.Source),
		DistanceKm:    est.DistanceKm,
		TravelMinutes: est.TravelMinutes,
		TravelTime:    est.TravelLabel,
		Route:         est.Route,
	})
}
