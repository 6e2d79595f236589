package dto

// Pointer fields distinguish a missing value from zero, which is a valid
// latitude and longitude.
type CoordinateRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type PairRequest struct {
	Start *CoordinateRequest `json:"start" validate:"required"`
	End   *CoordinateRequest `json:"end" validate:"required"`
}

type RoutesRequest struct {
	PairRequest
	Retries *int `json:"retries" validate:"omitempty,gte=0,lte=10"`
}

type FormatAddressRequest struct {
	Address string `json:"address" validate:"required"`
}
