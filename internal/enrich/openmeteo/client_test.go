package openmeteo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclemaps/cyclemaps/internal/enrich"
	"github.com/cyclemaps/cyclemaps/internal/enrich/openmeteo"
)

func TestFetchElevations_Success(t *testing.T) {
	var gotPath, gotLat, gotLng string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLat = r.URL.Query().Get("latitude")
		gotLng = r.URL.Query().Get("longitude")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elevation":[12.5,null,48]}`))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	result, err := client.FetchElevations(context.Background(), []enrich.Coordinate{
		{Lng: 4.8952, Lat: 52.3702},
		{Lng: 4.9, Lat: 52.38},
		{Lng: 4.91, Lat: 52.39},
	})

	require.NoError(t, err)
	assert.Equal(t, "/v1/elevation", gotPath)
	// Latitude and longitude travel as comma-joined lists in input order.
	assert.Equal(t, "52.3702,52.38,52.39", gotLat)
	assert.Equal(t, "4.8952,4.9,4.91", gotLng)

	require.Len(t, result, 3)
	assert.Equal(t, 12.5, *result[0])
	assert.Nil(t, result[1])
	assert.Equal(t, 48.0, *result[2])
}

func TestFetchElevations_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.FetchElevations(context.Background(), []enrich.Coordinate{{Lng: 4.9, Lat: 52.37}})

	require.Error(t, err)
	assert.ErrorIs(t, err, enrich.ErrProviderUnavailable)

	var enrichErr *enrich.Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, "HTTP_502", enrichErr.Code)
	assert.Equal(t, openmeteo.ProviderName, enrichErr.Provider)
}

func TestFetchElevations_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.FetchElevations(context.Background(), []enrich.Coordinate{{Lng: 4.9, Lat: 52.37}})

	require.Error(t, err)
	assert.ErrorIs(t, err, enrich.ErrProviderUnavailable)

	var enrichErr *enrich.Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, "BAD_RESPONSE", enrichErr.Code)
}

func TestFetchElevations_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elevation":[]}`))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchElevations(ctx, []enrich.Coordinate{{Lng: 4.9, Lat: 52.37}})
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := openmeteo.NewClient(openmeteo.ClientConfig{})

	assert.Equal(t, openmeteo.ProviderName, client.Name())
}
