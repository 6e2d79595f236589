package geo

import (
	"delivery-geo-service/internal/domain"
	"fmt"
	"math"
)

// Distance returns the geodesic distance between start and end in
// kilometers using the Vincenty (1975) inverse solution.
//
// It fails with ErrInvalidCoordinate when either point is invalid and with
// ErrDistanceCalculation when the lambda iteration does not converge within
// Config.MaxIterations.
func (c *Calculator) Distance(start, end domain.Coordinate) (float64, error) {
	if !IsValidCoordinate(start) {
		return 0, fmt.Errorf("calculate distance: start %s: %w", start, ErrInvalidCoordinate)
	}
	if !IsValidCoordinate(end) {
		return 0, fmt.Errorf("calculate distance: end %s: %w", end, ErrInvalidCoordinate)
	}

	if start == end {
		return 0, nil
	}

	a := c.cfg.SemiMajorAxis
	f := c.cfg.Flattening
	b := c.b

	L := degToRad(end.Longitude - start.Longitude)
	u1 := math.Atan((1 - f) * math.Tan(degToRad(start.Latitude)))
	u2 := math.Atan((1 - f) * math.Tan(degToRad(end.Latitude)))

	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := L
	var (
		sinSigma, cosSigma, sigma float64
		cosSqAlpha, cos2SigmaM    float64
		converged                 bool
	)

	for i := 0; i < c.cfg.MaxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda),
		)
		// Coincident points.
		if sinSigma == 0 {
			return 0, nil
		}

		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		// Both points on the equator: cos^2(alpha) is exactly zero.
		cos2SigmaM = 0
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) <= c.cfg.Tolerance {
			converged = true
			break
		}
	}

	if !converged {
		return 0, fmt.Errorf(
			"calculate distance %s -> %s: failed to converge after %d iterations: %w",
			start, end, c.cfg.MaxIterations, ErrDistanceCalculation,
		)
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	meters := b * A * (sigma - deltaSigma)

	return meters / 1000, nil
}

// RouteDistance returns the cumulative distance along route in kilometers.
// The first point contributes nothing; routes with fewer than two points
// have zero length.
func (c *Calculator) RouteDistance(route domain.Route) (float64, error) {
	total := 0.0
	for i := 1; i < len(route); i++ {
		d, err := c.Distance(route[i-1], route[i])
		if err != nil {
			return 0, fmt.Errorf("route distance: segment %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}

// CalculateDistance is Distance on the default WGS-84 calculator.
func CalculateDistance(start, end domain.Coordinate) (float64, error) {
	return defaultCalculator.Distance(start, end)
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
