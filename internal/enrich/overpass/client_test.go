package overpass_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclemaps/cyclemaps/internal/enrich"
	"github.com/cyclemaps/cyclemaps/internal/enrich/overpass"
)

func TestFetchNearbyWays_Success(t *testing.T) {
	var gotPath, gotQuery, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostFormValue("data")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"elements": [
				{
					"type": "way",
					"tags": {"highway": "residential", "surface": "asphalt"},
					"geometry": [{"lat": 52.37, "lon": 4.89}, {"lat": 52.38, "lon": 4.9}]
				},
				{
					"type": "way",
					"tags": {"highway": "track"},
					"geometry": [{"lat": 52.39, "lon": 4.91}]
				},
				{
					"type": "node",
					"geometry": [{"lat": 1, "lon": 1}]
				}
			]
		}`))
	}))
	defer server.Close()

	client := overpass.NewClient(overpass.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Timeout:    25 * time.Second,
	})

	ways, err := client.FetchNearbyWays(context.Background(), []enrich.Coordinate{
		{Lng: 4.89, Lat: 52.37},
		{Lng: 4.9, Lat: 52.38},
	}, 10)

	require.NoError(t, err)
	assert.Equal(t, "/api/interpreter", gotPath)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	// Latitude comes first in the around() point list.
	assert.Equal(t,
		`[out:json][timeout:25];way(around:10,52.37,4.89,52.38,4.9)["highway"];out tags geom;`,
		gotQuery)

	// Nodes are filtered out; untagged ways are kept with an empty surface.
	require.Len(t, ways, 2)
	assert.Equal(t, "asphalt", ways[0].Surface)
	require.Len(t, ways[0].Geometry, 2)
	assert.Equal(t, enrich.Coordinate{Lng: 4.89, Lat: 52.37}, ways[0].Geometry[0])
	assert.Empty(t, ways[1].Surface)
}

func TestFetchNearbyWays_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer server.Close()

	client := overpass.NewClient(overpass.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	ways, err := client.FetchNearbyWays(context.Background(), []enrich.Coordinate{{Lng: 4.89, Lat: 52.37}}, 10)

	require.NoError(t, err)
	assert.Empty(t, ways)
}

func TestFetchNearbyWays_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := overpass.NewClient(overpass.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.FetchNearbyWays(context.Background(), []enrich.Coordinate{{Lng: 4.89, Lat: 52.37}}, 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, enrich.ErrProviderUnavailable)

	var enrichErr *enrich.Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, "HTTP_429", enrichErr.Code)
	assert.Equal(t, overpass.ProviderName, enrichErr.Provider)
}

func TestFetchNearbyWays_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>busy</html>`))
	}))
	defer server.Close()

	client := overpass.NewClient(overpass.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.FetchNearbyWays(context.Background(), []enrich.Coordinate{{Lng: 4.89, Lat: 52.37}}, 10)

	require.Error(t, err)

	var enrichErr *enrich.Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, "BAD_RESPONSE", enrichErr.Code)
}

func TestNewClient_Defaults(t *testing.T) {
	client := overpass.NewClient(overpass.ClientConfig{})

	assert.Equal(t, overpass.ProviderName, client.Name())
}
