package enrich_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclemaps/cyclemaps/internal/enrich"
)

// stubWayProvider returns a fixed set of ways and records the query.
type stubWayProvider struct {
	ways   []enrich.Way
	err    error
	coords []enrich.Coordinate
	radius float64
}

func (s *stubWayProvider) FetchNearbyWays(_ context.Context, coords []enrich.Coordinate, radius float64) ([]enrich.Way, error) {
	s.coords = coords
	s.radius = radius
	if s.err != nil {
		return nil, s.err
	}
	return s.ways, nil
}

func (s *stubWayProvider) Name() string { return "stub-ways" }

func newSurfaceService(provider enrich.WayProvider) *enrich.Service {
	return enrich.NewService(enrich.ServiceConfig{
		Ways:   provider,
		Logger: zerolog.Nop(),
	})
}

// wayAlong builds a way running alongside the given coordinates.
func wayAlong(surface string, coords ...enrich.Coordinate) enrich.Way {
	return enrich.Way{Surface: surface, Geometry: coords}
}

func TestClassifySurface_AllAsphalt(t *testing.T) {
	coords := makeCoords(40)
	provider := &stubWayProvider{
		ways: []enrich.Way{wayAlong("asphalt", coords...)},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	assert.Equal(t, 40, breakdown.Matched)
	require.Len(t, breakdown.Shares, 1)
	assert.Equal(t, enrich.BucketPaved, breakdown.Shares[0].Bucket)
	assert.Equal(t, 100, breakdown.Shares[0].Percent)
}

func TestClassifySurface_MixedWithUntaggedDefault(t *testing.T) {
	coords := makeCoords(40)

	// A gravel way hugging the first 30 points, an untagged way hugging the
	// last 10. Untagged defaults to paved.
	provider := &stubWayProvider{
		ways: []enrich.Way{
			wayAlong("gravel", coords[:30]...),
			wayAlong("", coords[30:]...),
		},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	assert.Equal(t, 40, breakdown.Matched)
	require.Len(t, breakdown.Shares, 2)
	assert.Equal(t, enrich.SurfaceShare{Bucket: enrich.BucketPaved, Percent: 25}, breakdown.Shares[0])
	assert.Equal(t, enrich.SurfaceShare{Bucket: enrich.BucketGravel, Percent: 75}, breakdown.Shares[1])
}

func TestClassifySurface_UnknownTagIsDirt(t *testing.T) {
	coords := makeCoords(4)
	provider := &stubWayProvider{
		ways: []enrich.Way{wayAlong("mud", coords...)},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	require.Len(t, breakdown.Shares, 1)
	assert.Equal(t, enrich.BucketDirt, breakdown.Shares[0].Bucket)
}

func TestClassifySurface_NearestWayWins(t *testing.T) {
	coords := []enrich.Coordinate{
		{Lng: 0, Lat: 0},
		{Lng: 0.001, Lat: 0},
	}

	// The asphalt way is right on the route, the gravel way is offset.
	provider := &stubWayProvider{
		ways: []enrich.Way{
			wayAlong("gravel",
				enrich.Coordinate{Lng: 0, Lat: 0.01},
				enrich.Coordinate{Lng: 0.001, Lat: 0.01}),
			wayAlong("asphalt",
				enrich.Coordinate{Lng: 0, Lat: 0},
				enrich.Coordinate{Lng: 0.001, Lat: 0}),
		},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	require.Len(t, breakdown.Shares, 1)
	assert.Equal(t, enrich.BucketPaved, breakdown.Shares[0].Bucket)
	assert.Equal(t, 100, breakdown.Shares[0].Percent)
}

func TestClassifySurface_TieBreaksOnFirstWay(t *testing.T) {
	coords := []enrich.Coordinate{
		{Lng: 0, Lat: 0},
		{Lng: 0.001, Lat: 0},
	}

	// Two ways at identical distance: the first one returned wins.
	way := []enrich.Coordinate{
		{Lng: 0, Lat: 0},
		{Lng: 0.001, Lat: 0},
	}
	provider := &stubWayProvider{
		ways: []enrich.Way{
			wayAlong("gravel", way...),
			wayAlong("asphalt", way...),
		},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	require.Len(t, breakdown.Shares, 1)
	assert.Equal(t, enrich.BucketGravel, breakdown.Shares[0].Bucket)
}

func TestClassifySurface_NoWaysIsEmptyResult(t *testing.T) {
	provider := &stubWayProvider{}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), makeCoords(5))

	require.NoError(t, err)
	assert.Equal(t, 0, breakdown.Matched)
	assert.Empty(t, breakdown.Shares)
}

func TestClassifySurface_TooFewCoordinates(t *testing.T) {
	svc := newSurfaceService(&stubWayProvider{})

	_, err := svc.ClassifySurface(context.Background(), makeCoords(1))
	assert.ErrorIs(t, err, enrich.ErrInvalidInput)

	_, err = svc.ClassifySurface(context.Background(), nil)
	assert.ErrorIs(t, err, enrich.ErrInvalidInput)
}

func TestClassifySurface_TwoCoordinatesIsValid(t *testing.T) {
	coords := makeCoords(2)
	provider := &stubWayProvider{
		ways: []enrich.Way{wayAlong("asphalt", coords...)},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.Matched)
}

func TestClassifySurface_SamplesLongRoutes(t *testing.T) {
	coords := makeCoords(200)
	provider := &stubWayProvider{
		ways: []enrich.Way{wayAlong("asphalt", coords...)},
	}
	svc := newSurfaceService(provider)

	breakdown, err := svc.ClassifySurface(context.Background(), coords)

	require.NoError(t, err)
	// stride 5 over 200 points plus the forced last point.
	assert.Len(t, provider.coords, 41)
	assert.Equal(t, 41, breakdown.Matched)
	assert.Equal(t, 10.0, provider.radius)
}

func TestClassifySurface_ProviderTimeout(t *testing.T) {
	provider := &stubWayProvider{err: context.DeadlineExceeded}
	svc := newSurfaceService(provider)

	_, err := svc.ClassifySurface(context.Background(), makeCoords(3))

	assert.ErrorIs(t, err, enrich.ErrProviderTimeout)
}

func TestClassifySurface_Idempotent(t *testing.T) {
	coords := makeCoords(40)
	provider := &stubWayProvider{
		ways: []enrich.Way{
			wayAlong("gravel", coords[:30]...),
			wayAlong("", coords[30:]...),
		},
	}
	svc := newSurfaceService(provider)

	first, err := svc.ClassifySurface(context.Background(), coords)
	require.NoError(t, err)
	second, err := svc.ClassifySurface(context.Background(), coords)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
