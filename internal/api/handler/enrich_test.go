package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclemaps/cyclemaps/internal/api/handler"
	"github.com/cyclemaps/cyclemaps/internal/api/models"
	"github.com/cyclemaps/cyclemaps/internal/enrich"
)

type fakeElevationProvider struct {
	elevations []*float64
	err        error
}

func (f *fakeElevationProvider) FetchElevations(_ context.Context, coords []enrich.Coordinate) ([]*float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.elevations != nil {
		return f.elevations, nil
	}
	return make([]*float64, len(coords)), nil
}

func (f *fakeElevationProvider) Name() string { return "fake-elevation" }

type fakeWayProvider struct {
	ways []enrich.Way
	err  error
}

func (f *fakeWayProvider) FetchNearbyWays(_ context.Context, _ []enrich.Coordinate, _ float64) ([]enrich.Way, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ways, nil
}

func (f *fakeWayProvider) Name() string { return "fake-ways" }

func newEnrichHandler(elevation enrich.ElevationProvider, ways enrich.WayProvider) *handler.EnrichHandler {
	svc := enrich.NewService(enrich.ServiceConfig{
		Elevation: elevation,
		Ways:      ways,
		Logger:    zerolog.Nop(),
	})
	return handler.NewEnrichHandler(svc)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/enrich", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestElevation_Success(t *testing.T) {
	e100, e105 := 100.0, 105.0
	h := newEnrichHandler(&fakeElevationProvider{
		elevations: []*float64{&e100, nil, &e105},
	}, nil)

	w := postJSON(t, h.Elevation, `{"coordinates":[[4.89,52.37],[4.9,52.38],[4.91,52.39]]}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ElevationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Elevations, 3)
	assert.Equal(t, 100.0, *resp.Elevations[0])
	// The interior gap is interpolated, never returned as null.
	require.NotNil(t, resp.Elevations[1])
	assert.InDelta(t, 102.5, *resp.Elevations[1], 1e-9)
	assert.Equal(t, 5, resp.ElevationGainM)
}

func TestElevation_EmptyCoordinates(t *testing.T) {
	h := newEnrichHandler(&fakeElevationProvider{}, nil)

	w := postJSON(t, h.Elevation, `{"coordinates":[]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestElevation_MalformedPair(t *testing.T) {
	h := newEnrichHandler(&fakeElevationProvider{}, nil)

	w := postJSON(t, h.Elevation, `{"coordinates":[[4.89]]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "coordinates[0]", problem.Errors[0].Field)
}

func TestElevation_OutOfRangeCoordinates(t *testing.T) {
	h := newEnrichHandler(&fakeElevationProvider{}, nil)

	w := postJSON(t, h.Elevation, `{"coordinates":[[200,52.37]]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestElevation_ProviderTimeout(t *testing.T) {
	h := newEnrichHandler(&fakeElevationProvider{err: context.DeadlineExceeded}, nil)

	w := postJSON(t, h.Elevation, `{"coordinates":[[4.89,52.37]]}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestElevation_ProviderError(t *testing.T) {
	h := newEnrichHandler(&fakeElevationProvider{err: &enrich.Error{
		Provider: "fake-elevation",
		Code:     "HTTP_502",
		Message:  "elevation provider returned status 502",
		Err:      enrich.ErrProviderUnavailable,
	}}, nil)

	w := postJSON(t, h.Elevation, `{"coordinates":[[4.89,52.37]]}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "elevation provider returned status 502", problem.Detail)
}

func TestElevation_InvalidJSON(t *testing.T) {
	h := newEnrichHandler(&fakeElevationProvider{}, nil)

	w := postJSON(t, h.Elevation, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSurface_Success(t *testing.T) {
	way := enrich.Way{
		Surface: "asphalt",
		Geometry: []enrich.Coordinate{
			{Lng: 4.89, Lat: 52.37},
			{Lng: 4.91, Lat: 52.39},
		},
	}
	h := newEnrichHandler(nil, &fakeWayProvider{ways: []enrich.Way{way}})

	w := postJSON(t, h.Surface, `{"coordinates":[[4.89,52.37],[4.9,52.38],[4.91,52.39]]}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SurfaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalPoints)
	require.Len(t, resp.Breakdown, 1)
	assert.Equal(t, "paved", resp.Breakdown[0].Surface)
	assert.Equal(t, 100, resp.Breakdown[0].Percent)
}

func TestSurface_NoNearbyWays(t *testing.T) {
	h := newEnrichHandler(nil, &fakeWayProvider{})

	w := postJSON(t, h.Surface, `{"coordinates":[[4.89,52.37],[4.9,52.38]]}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SurfaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalPoints)
	assert.Empty(t, resp.Breakdown)
}

func TestSurface_SinglePointRejected(t *testing.T) {
	h := newEnrichHandler(nil, &fakeWayProvider{})

	w := postJSON(t, h.Surface, `{"coordinates":[[4.89,52.37]]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
