package services

import (
	"context"
	"delivery-geo-service/internal/domain"
	"delivery-geo-service/internal/geo"
	"delivery-geo-service/internal/platform/obs"
	"delivery-geo-service/internal/ports"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoGeocoder is returned by ReverseAddress when no reverse geocoder is
// configured.
var ErrNoGeocoder = errors.New("no reverse geocoder configured")

// AddressService turns coordinates into short display addresses.
type AddressService struct {
	geocoder ports.ReverseGeocoder
	cache    ports.AddressCache
	suffix   string
	logger   zerolog.Logger
}

// NewAddressService wires an AddressService. cache may be nil; suffix is the
// trailing country text removed before formatting.
func NewAddressService(geocoder ports.ReverseGeocoder, cache ports.AddressCache, suffix string, logger zerolog.Logger) *AddressService {
	return &AddressService{geocoder: geocoder, cache: cache, suffix: suffix, logger: logger}
}

// Format shortens a reverse-geocoded address for display.
func (s *AddressService) Format(address string) string {
	return geo.FormatAddressWithSuffix(address, s.suffix)
}

// ReverseAddress reverse-geocodes c and returns the formatted address.
func (s *AddressService) ReverseAddress(ctx context.Context, c domain.Coordinate) (_ string, err error) {
	defer obs.Time(ctx, s.logger, "address.ReverseAddress")(&err)

	if !geo.IsValidCoordinate(c) {
		return "", fmt.Errorf("reverse address %s: %w", c, geo.ErrInvalidCoordinate)
	}

	if s.cache != nil {
		addr, ok, err := s.cache.Get(ctx, c)
		if err != nil {
			s.logger.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Msg("address cache read failed")
		} else if ok {
			return addr, nil
		}
	}

	if s.geocoder == nil {
		return "", fmt.Errorf("reverse address: %w", ErrNoGeocoder)
	}

	raw, err := s.geocoder.ReverseGeocode(ctx, c)
	if err != nil {
		return "", fmt.Errorf("reverse address %s: %w", c, err)
	}

	addr := s.Format(raw)

	if s.cache != nil && addr != "" {
		if err := s.cache.Put(ctx, c, addr); err != nil {
			s.logger.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Msg("address cache write failed")
		}
	}

	return addr, nil
}
