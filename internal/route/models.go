// Package route provides persistence and management of drawn cycling routes.
package route

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("route not found")
)

// Route represents a saved cycling route. Geometry and waypoints are stored
// as JSON text exactly as the builder client produced them; the enrichment
// blobs hold the last elevation profile and surface breakdown the client
// chose to persist with the route.
type Route struct {
	ID               string
	Name             string
	Description      string
	RouteType        string
	Region           string
	DistanceKm       float64
	ElevationM       float64
	Geometry         string // GeoJSON LineString
	Waypoints        string // JSON array of [lng, lat] pairs
	CenterLng        float64
	CenterLat        float64
	ElevationProfile string
	SurfaceData      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Summary is a route without its heavyweight geometry fields, used for
// listings.
type Summary struct {
	ID          string
	Name        string
	Description string
	RouteType   string
	Region      string
	DistanceKm  float64
	ElevationM  float64
	CenterLng   float64
	CenterLat   float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Summary returns the lightweight view of the route.
func (r *Route) Summary() Summary {
	return Summary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		RouteType:   r.RouteType,
		Region:      r.Region,
		DistanceKm:  r.DistanceKm,
		ElevationM:  r.ElevationM,
		CenterLng:   r.CenterLng,
		CenterLat:   r.CenterLat,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
