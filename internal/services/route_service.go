package services

import (
	"context"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/geo"
	"delivery-geo-service/internal/platform/obs"
	"delivery-geo-service/internal/ports"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// RouteService answers distance and route questions between two points.
//
// Provider routes are looked up in the optional cache first, and concurrent
// identical fetches are coalesced. The service is safe for concurrent use.
type RouteService struct {
	provider ports.DirectionsProvider
	cache    ports.RouteCache
	calc     *geo.Calculator
	retries  int
	group    singleflight.Group
	logger   zerolog.Logger
}

// NewRouteService wires a RouteService. cache may be nil; calc defaults to
// the WGS-84 calculator.
func NewRouteService(
	provider ports.DirectionsProvider,
	cache ports.RouteCache,
	calc *geo.Calculator,
	retries int,
	logger zerolog.Logger,
) *RouteService {
	if calc == nil {
		calc = geo.Default()
	}
	return &RouteService{
		provider: provider,
		cache:    cache,
		calc:     calc,
		retries:  retries,
		logger:   logger,
	}
}

// DefaultRetries is the rate-limit retry budget used by OptimalRoute.
func (s *RouteService) DefaultRetries() int { return s.retries }

// GetRoutes returns candidate routes from start to end. Any provider or
// cache failure degrades to an empty, non-nil slice.
func (s *RouteService) GetRoutes(ctx context.Context, start, end domain.Coordinate, retries int) []domain.Route {
	if s.cache != nil {
		routes, ok, err := s.cache.Get(ctx, start, end)
		if err != nil {
			s.logger.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Msg("route cache read failed")
		} else if ok {
			return routes
		}
	}

	v, err, shared := s.group.Do(flightKey(start, end, retries), func() (any, error) {
		routes, err := s.provider.Routes(ctx, start, end, retries)
		if err != nil {
			return nil, err
		}

		if s.cache != nil && len(routes) > 0 {
			if err := s.cache.Put(ctx, start, end, routes); err != nil {
				s.logger.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Msg("route cache write failed")
			}
		}
		return routes, nil
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("req_id", obs.RequestID(ctx)).
			Stringer("start", start).
			Stringer("end", end).
			Bool("shared", shared).
			Msg("no routes available")
		return []domain.Route{}
	}

	routes, _ := v.([]domain.Route)
	if routes == nil {
		return []domain.Route{}
	}
	return routes
}

// OptimalRoute returns the shortest provider route between start and end.
// When the provider has nothing usable it falls back to the straight-line
// geodesic distance, reported with SourceStraightLine.
func (s *RouteService) OptimalRoute(ctx context.Context, start, end domain.Coordinate) (_ domain.RouteEstimate, err error) {
	defer obs.Time(ctx, s.logger, "routes.OptimalRoute")(&err)

	if err := s.validate(start, end); err != nil {
		return domain.RouteEstimate{}, err
	}

	routes := s.GetRoutes(ctx, start, end, s.retries)
	if len(routes) > 0 {
		best, err := s.calc.FindOptimalRoute(routes)
		if err == nil {
			return s.estimate(domain.SourceRoute, best.Distance, best.Route), nil
		}
		s.logger.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Msg("provider routes unusable, using straight line")
	}

	return s.Estimate(start, end)
}

// Estimate returns the straight-line geodesic distance and travel time.
func (s *RouteService) Estimate(start, end domain.Coordinate) (domain.RouteEstimate, error) {
	d, err := s.calc.Distance(start, end)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("estimate: %w", err)
	}
	return s.estimate(domain.SourceStraightLine, d, domain.Route{start, end}), nil
}

func (s *RouteService) estimate(src domain.EstimateSource, km float64, route domain.Route) domain.RouteEstimate {
	minutes := s.calc.TravelTime(km)
	return domain.RouteEstimate{
		Source:        src,
		DistanceKm:    km,
		TravelMinutes: minutes,
		TravelLabel:   geo.FormatTime(minutes),
		Route:         route,
	}
}

func (s *RouteService) validate(start, end domain.Coordinate) error {
	if !geo.IsValidCoordinate(start) {
		return fmt.Errorf("start %s: %w", start, geo.ErrInvalidCoordinate)
	}
	if !geo.IsValidCoordinate(end) {
		return fmt.Errorf("end %s: %w", end, geo.ErrInvalidCoordinate)
	}
	return nil
}

func flightKey(start, end domain.Coordinate, retries int) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return f(start.Latitude) + "," + f(start.Longitude) + ";" +
		f(end.Latitude) + "," + f(end.Longitude) + "#" + strconv.Itoa(retries)
}
