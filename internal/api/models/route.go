package models

import "encoding/json"

// Route is the full API representation of a saved route. Field names use
// snake_case to match the builder and viewer clients' wire format.
type Route struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	RouteType        string    `json:"route_type"`
	Region           string    `json:"region"`
	DistanceKm       float64   `json:"distance_km"`
	ElevationM       float64   `json:"elevation_m"`
	Geometry         string    `json:"geometry"`
	Waypoints        string    `json:"waypoints"`
	CenterLng        float64   `json:"center_lng"`
	CenterLat        float64   `json:"center_lat"`
	ElevationProfile string    `json:"elevation_profile,omitempty"`
	SurfaceData      string    `json:"surface_data,omitempty"`
	CreatedAt        Timestamp `json:"created_at"`
	UpdatedAt        Timestamp `json:"updated_at"`
}

// RouteSummary is a route without its heavyweight geometry fields.
type RouteSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RouteType   string    `json:"route_type"`
	Region      string    `json:"region"`
	DistanceKm  float64   `json:"distance_km"`
	ElevationM  float64   `json:"elevation_m"`
	CenterLng   float64   `json:"center_lng"`
	CenterLat   float64   `json:"center_lat"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// RouteCreateRequest is the request body for creating a route.
type RouteCreateRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	RouteType        string  `json:"route_type"`
	Region           string  `json:"region"`
	DistanceKm       float64 `json:"distance_km"`
	ElevationM       float64 `json:"elevation_m"`
	Geometry         string  `json:"geometry"`
	Waypoints        string  `json:"waypoints"`
	CenterLng        float64 `json:"center_lng"`
	CenterLat        float64 `json:"center_lat"`
	ElevationProfile string  `json:"elevation_profile"`
	SurfaceData      string  `json:"surface_data"`
}

// RouteUpdateRequest is the request body for updating a route. All fields
// are optional; absent fields keep their stored values.
type RouteUpdateRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	RouteType        *string  `json:"route_type"`
	Region           *string  `json:"region"`
	DistanceKm       *float64 `json:"distance_km"`
	ElevationM       *float64 `json:"elevation_m"`
	Geometry         *string  `json:"geometry"`
	Waypoints        *string  `json:"waypoints"`
	CenterLng        *float64 `json:"center_lng"`
	CenterLat        *float64 `json:"center_lat"`
	ElevationProfile *string  `json:"elevation_profile"`
	SurfaceData      *string  `json:"surface_data"`
}

// FeatureCollection is a GeoJSON FeatureCollection of all routes.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature wrapping a stored route geometry.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties carries the route metadata shown on the map.
type FeatureProperties struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RouteType   string  `json:"route_type"`
	Region      string  `json:"region"`
	DistanceKm  float64 `json:"distance_km"`
	ElevationM  float64 `json:"elevation_m"`
}
