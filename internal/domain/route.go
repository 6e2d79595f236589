package domain

// Route is an ordered polyline from a start point to an end point, as
// returned by a directions provider. Routes are read-only once produced.
type Route []Coordinate

// OptimalRouteResult is the outcome of selecting the shortest candidate route.
// Distance is the sum of consecutive geodesic distances along Route, in kilometers.
type OptimalRouteResult struct {
	Route    Route
	Distance float64
}

// Where a RouteEstimate's distance came from.
type EstimateSource string

const (
	SourceRoute        EstimateSource = "route"
	SourceStraightLine EstimateSource = "straight_line"
)

// RouteEstimate describes travel between two points: distance, estimated
// travel time and, when a directions provider answered, the chosen polyline.
type RouteEstimate struct {
	Source        EstimateSource
	DistanceKm    float64
	TravelMinutes int
	TravelLabel   string
	Route         Route
}

// TrackSummary aggregates a recorded GPS track.
type TrackSummary struct {
	Points        int
	Skipped       int
	DistanceKm    float64
	TravelMinutes int
	TravelLabel   string
}
