package handlers

import (
	"delivery-geo-service/internal/api/dto"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/geo"
	"delivery-geo-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, details ...string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg, Details: details})
}

// writeServiceError maps service errors onto HTTP statuses. Errors with no
// specific mapping get fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate):
		status = http.StatusBadRequest
	case errors.Is(err, geo.ErrDistanceCalculation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoGeocoder):
		status = http.StatusNotImplemented
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, r, status, err.Error())
}

// decodeJSON reads exactly one JSON object into dst and validates it. It
// writes the error response itself and reports whether the caller should
// continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if details := validateStruct(dst); len(details) > 0 {
		writeError(w, r, http.StatusBadRequest, "validation failed", details...)
		return false
	}
	return true
}

func toCoordinate(c *dto.CoordinateRequest) domain.Coordinate {
	return domain.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
}
