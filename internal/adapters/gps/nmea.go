// Package gps turns NMEA 0183 sentences from a driver's GPS receiver into
// coordinates.
package gps

import (
	"bufio"
	"delivery-geo-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adrianmo/go-nmea"
)

// ErrNoFix is returned for well-formed sentences that carry no usable position.
var ErrNoFix = errors.New("no gps fix")

// ParseSentence extracts a coordinate from a GGA or RMC sentence.
func ParseSentence(line string) (domain.Coordinate, error) {
	s, err := nmea.Parse(strings.TrimSpace(line))
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse nmea: %w", err)
	}

	switch m := s.(type) {
	case nmea.GGA:
		if m.FixQuality == nmea.Invalid {
			return domain.Coordinate{}, ErrNoFix
		}
		return domain.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}, nil
	case nmea.RMC:
		if m.Validity != nmea.ValidRMC {
			return domain.Coordinate{}, ErrNoFix
		}
		return domain.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}, nil
	default:
		return domain.Coordinate{}, fmt.Errorf("unsupported sentence type %q", s.DataType())
	}
}

// ReadTrack returns coordinates from every GGA/RMC fix in r, in order.
// Unparseable lines, other sentence types and fix-less sentences are counted
// as skipped.
func ReadTrack(r io.Reader) (points []domain.Coordinate, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		c, err := ParseSentence(line)
		if err != nil {
			skipped++
			continue
		}
		points = append(points, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read track: %w", err)
	}

	return points, skipped, nil
}
