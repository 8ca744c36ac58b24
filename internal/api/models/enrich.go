package models

// EnrichRequest is the request body for both enrichment endpoints.
// Coordinates are [longitude, latitude] pairs in route order.
type EnrichRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// ElevationResponse is the response for elevation enrichment. Elevations are
// in meters, one per input coordinate; an entry is null only when the
// provider had no value for any point of the route.
type ElevationResponse struct {
	Elevations     []*float64 `json:"elevations"`
	ElevationGainM int        `json:"elevation_gain_m"`
}

// SurfaceResponse is the response for surface enrichment.
type SurfaceResponse struct {
	Breakdown   []SurfaceShare `json:"breakdown"`
	TotalPoints int            `json:"total_points"`
}

// SurfaceShare is one surface bucket's percentage of the matched samples.
type SurfaceShare struct {
	Surface string `json:"surface"`
	Percent int    `json:"percent"`
}
