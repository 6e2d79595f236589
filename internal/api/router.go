package api

import (
	"delivery-geo-service/internal/api/handlers"
	"delivery-geo-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Deps are the services the HTTP API is built on.
type Deps struct {
	Routes    *services.RouteService
	Addresses *services.AddressService
	Checks    map[string]handlers.HealthCheck
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	health := &handlers.HealthHandler{Checks: deps.Checks}
	routes := &handlers.RouteHandler{Service: deps.Routes}
	addresses := &handlers.AddressHandler{Service: deps.Addresses}

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.NotFoundHandler = r.NotFoundHandler
	v1.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	v1.HandleFunc("/distance", routes.Distance).Methods(http.MethodPost)
	v1.HandleFunc("/routes", routes.Routes).Methods(http.MethodPost)
	v1.HandleFunc("/routes/optimal", routes.Optimal).Methods(http.MethodPost)
	v1.HandleFunc("/address/format", addresses.Format).Methods(http.MethodPost)
	v1.HandleFunc("/address/reverse", addresses.Reverse).Methods(http.MethodGet)

	return requestIDMiddleware(loggingMiddleware(r), logger)
}
