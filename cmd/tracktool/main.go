package main

import (
	"delivery-geo-service/internal/adapters/gps"
	"delivery-geo-service/internal/config"
	"delivery-geo-service/internal/geo"
	"delivery-geo-service/internal/platform/obs"
	"delivery-geo-service/internal/services"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// tracktool reads an NMEA log (GGA/RMC sentences) and prints the travelled
// distance and estimated travel time.
func main() {
	file := flag.String("file", "-", "NMEA log to read, - for stdin")
	speed := flag.Float64("speed", geo.DefaultAverageSpeedKmph, "average speed in km/h")
	flag.Parse()

	logger := obs.NewLogger(config.Get("LOG_LEVEL", "info"), true)

	if err := run(*file, *speed, os.Stdout, logger); err != nil {
		logger.Fatal().Err(err).Msg("tracktool failed")
	}
}

type output struct {
	Points        int     `json:"points"`
	Skipped       int     `json:"skipped"`
	DistanceKm    float64 `json:"distance_km"`
	TravelMinutes int     `json:"travel_minutes"`
	TravelTime    string  `json:"travel_time"`
}

func run(path string, speed float64, w io.Writer, logger zerolog.Logger) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	points, skipped, err := gps.ReadTrack(r)
	if err != nil {
		return err
	}
	logger.Debug().Int("fixes", len(points)).Int("skipped", skipped).Msg("track read")

	svc := services.NewTrackService(geo.NewCalculator(geo.Config{AverageSpeedKmph: speed}))
	sum, err := svc.Summarize(points)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output{
		Points:        sum.Points,
		Skipped:       sum.Skipped + skipped,
		DistanceKm:    sum.DistanceKm,
		TravelMinutes: sum.TravelMinutes,
		TravelTime:    sum.TravelLabel,
	})
}
