// Package overpass provides a client for the Overpass API, used to look up
// road and path ways with their surface tags near a route.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cyclemaps/cyclemaps/internal/enrich"
	"github.com/cyclemaps/cyclemaps/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the public Overpass instance.
	DefaultBaseURL = "https://overpass-api.de"

	// ProviderName identifies this provider.
	ProviderName = "overpass"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a circuit-breaking client without retries is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 25s).
	Timeout time.Duration
}

// Client is an Overpass API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	timeout    time.Duration
}

// NewClient creates a new Overpass client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = enrich.DefaultWayLookupTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:           ProviderName,
			Timeout:        timeout,
			DisableRetries: true,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Overpass wire format. Way geometry comes back as {lat, lon} objects in way
// order; note the order is the reverse of our internal (lng, lat) convention.

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type     string            `json:"type"`
	Tags     map[string]string `json:"tags"`
	Geometry []overpassVertex  `json:"geometry"`
}

type overpassVertex struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FetchNearbyWays retrieves all highway-tagged ways within radius of any of
// the given coordinates, with tags and full geometry.
func (c *Client) FetchNearbyWays(ctx context.Context, coords []enrich.Coordinate, radius float64) ([]enrich.Way, error) {
	query := buildQuery(coords, radius, c.timeout)

	form := url.Values{}
	form.Set("data", query)

	endpoint := c.baseURL + "/api/interpreter"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ways: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &enrich.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("way-lookup provider returned status %d", resp.StatusCode),
			Err:      enrich.ErrProviderUnavailable,
		}
	}

	var result overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &enrich.Error{
			Provider: ProviderName,
			Code:     "BAD_RESPONSE",
			Message:  "decode way-lookup response: " + err.Error(),
			Err:      enrich.ErrProviderUnavailable,
		}
	}

	ways := make([]enrich.Way, 0, len(result.Elements))
	for _, el := range result.Elements {
		if el.Type != "way" {
			continue
		}
		geometry := make([]enrich.Coordinate, 0, len(el.Geometry))
		for _, v := range el.Geometry {
			geometry = append(geometry, enrich.Coordinate{Lng: v.Lon, Lat: v.Lat})
		}
		ways = append(ways, enrich.Way{
			Surface:  el.Tags["surface"],
			Geometry: geometry,
		})
	}

	return ways, nil
}

// buildQuery assembles an Overpass QL radius-around-multipoint query filtered
// to highway ways, requesting tags and geometry.
func buildQuery(coords []enrich.Coordinate, radius float64, timeout time.Duration) string {
	points := make([]string, len(coords))
	for i, c := range coords {
		// Overpass takes latitude first.
		points[i] = strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," +
			strconv.FormatFloat(c.Lng, 'f', -1, 64)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];", int(timeout.Seconds()))
	fmt.Fprintf(&b, "way(around:%s,%s)[\"highway\"];",
		strconv.FormatFloat(radius, 'f', -1, 64),
		strings.Join(points, ","))
	b.WriteString("out tags geom;")
	return b.String()
}

// Ensure Client implements the provider interface.
var _ enrich.WayProvider = (*Client)(nil)
