// Package enrich derives elevation profiles and surface-type breakdowns for
// drawn cycling routes by querying external geodata providers.
package enrich

import (
	"context"
	"errors"
)

// Sentinel errors for enrichment operations.
var (
	// ErrInvalidInput indicates the caller supplied malformed or insufficient
	// coordinates. Detected before any provider call is made.
	ErrInvalidInput = errors.New("invalid enrichment input")
	// ErrProviderUnavailable indicates the geodata provider returned a
	// non-success status or an unparseable body.
	ErrProviderUnavailable = errors.New("geodata provider unavailable")
	// ErrProviderTimeout indicates the geodata provider exceeded its deadline.
	ErrProviderTimeout = errors.New("geodata provider timed out")
)

// Coordinate represents a geographic point in (longitude, latitude) order,
// matching the order routes are drawn and stored in. Provider APIs take
// latitude first, so the two orders must never be mixed up silently.
type Coordinate struct {
	Lng float64
	Lat float64
}

// ElevationProvider fetches elevations for a single batch of coordinates.
// Implementations must return exactly one entry per coordinate, in input
// order, with nil marking positions the provider had no value for.
type ElevationProvider interface {
	FetchElevations(ctx context.Context, coords []Coordinate) ([]*float64, error)
	// Name returns the provider identifier for logging and error reporting.
	Name() string
}

// WayProvider fetches road and path ways within a radius of the given
// coordinates, including full way geometry.
type WayProvider interface {
	FetchNearbyWays(ctx context.Context, coords []Coordinate, radius float64) ([]Way, error)
	Name() string
}

// Way is a provider-supplied road or path segment.
type Way struct {
	// Surface is the provider's free-text surface tag; empty when untagged.
	Surface string
	// Geometry is the ordered vertex sequence of the way.
	Geometry []Coordinate
}

// ElevationProfile is the result of enriching a route with elevations.
type ElevationProfile struct {
	// Elevations holds one entry per input coordinate, in input order.
	// An entry is nil only when the provider returned no value for the
	// position and no known neighbor existed to fill it from.
	Elevations []*float64
	// ClimbMeters is the sum of positive elevation deltas between
	// consecutive known points, rounded to the nearest meter.
	ClimbMeters int
}

// SurfaceBucket is a coarse surface category.
type SurfaceBucket string

// Surface buckets, in reporting order.
const (
	BucketPaved  SurfaceBucket = "paved"
	BucketGravel SurfaceBucket = "gravel"
	BucketDirt   SurfaceBucket = "dirt"
)

// bucketOrder fixes the ordering of buckets in breakdowns.
var bucketOrder = []SurfaceBucket{BucketPaved, BucketGravel, BucketDirt}

// pavedTags and gravelTags map the known OSM surface vocabulary onto buckets.
// Matching is case-sensitive and exact; any other non-empty tag is dirt.
var (
	pavedTags = map[string]struct{}{
		"asphalt": {}, "paved": {}, "concrete": {}, "concrete:plates": {},
		"concrete:lanes": {}, "cobblestone": {}, "sett": {}, "paving_stones": {},
		"metal": {}, "wood": {},
	}
	gravelTags = map[string]struct{}{
		"gravel": {}, "fine_gravel": {}, "compacted": {}, "pebblestone": {},
	}
)

// BucketForTag maps a provider surface tag onto a bucket. An empty tag maps
// to paved: untagged ways are overwhelmingly paved roads, so this is a policy
// default rather than an inference.
func BucketForTag(tag string) SurfaceBucket {
	if tag == "" {
		return BucketPaved
	}
	if _, ok := pavedTags[tag]; ok {
		return BucketPaved
	}
	if _, ok := gravelTags[tag]; ok {
		return BucketGravel
	}
	return BucketDirt
}

// SurfaceShare is one bucket's share of the matched samples.
type SurfaceShare struct {
	Bucket  SurfaceBucket
	Percent int
}

// SurfaceBreakdown is the result of classifying a route's surfaces.
type SurfaceBreakdown struct {
	// Shares lists buckets with a nonzero sample count, in bucket order.
	// Percentages sum to 100 subject to rounding.
	Shares []SurfaceShare
	// Matched is the number of samples that found at least one nearby way.
	Matched int
}

// Error carries provider context for a failed enrichment.
type Error struct {
	Provider string // provider that generated the error, empty for input errors
	Code     string // short machine-readable code
	Message  string // human-readable message
	Err      error  // one of the sentinel errors above
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
