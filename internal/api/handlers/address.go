package handlers

import (
	"delivery-geo-service/internal/api/dto"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/services"
	"net/http"
	"strconv"
)

type AddressHandler struct {
	Service *services.AddressService
}

func (h *AddressHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req dto.FormatAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AddressResponse{Address: h.Service.Format(req.Address)})
}

// Reverse handles GET /v1/address/reverse?lat=..&lon=..
func (h *AddressHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lon must be a number")
		return
	}

	addr, err := h.Service.ReverseAddress(r.Context(), domain.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		writeServiceError(w, r, err, http.StatusBadGateway)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AddressResponse{Address: addr})
}
