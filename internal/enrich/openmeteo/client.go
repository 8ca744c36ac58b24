// Package openmeteo provides a client for the Open-Meteo elevation API.
package openmeteo

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
	// DefaultBaseURL is the base URL for the Open-Meteo API.
	DefaultBaseURL = "https://api.open-meteo.com"

	// ProviderName identifies this provider.
	ProviderName = "open-meteo"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a circuit-breaking client without retries is created:
	// enrichment fails fast and leaves retry policy to the caller.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 15s).
	Timeout time.Duration
}

// Client is an Open-Meteo elevation API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = enrich.DefaultElevationTimeout
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:           ProviderName,
			Timeout:        timeout,
			DisableRetries: true,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// elevationResponse is the Open-Meteo wire format. Entries may be null when
// the provider has no value for a position.
type elevationResponse struct {
	Elevation []*float64 `json:"elevation"`
}

// FetchElevations retrieves elevations for a single batch of at most 80
// coordinates. Latitudes and longitudes travel as two comma-joined lists
// paired by position, so both must be emitted in exactly the input order.
func (c *Client) FetchElevations(ctx context.Context, coords []enrich.Coordinate) ([]*float64, error) {
	lats := make([]string, len(coords))
	lngs := make([]string, len(coords))
	for i, coord := range coords {
		lats[i] = strconv.FormatFloat(coord.Lat, 'f', -1, 64)
		lngs[i] = strconv.FormatFloat(coord.Lng, 'f', -1, 64)
	}

	params := url.Values{}
	params.Set("latitude", strings.Join(lats, ","))
	params.Set("longitude", strings.Join(lngs, ","))

	endpoint := fmt.Sprintf("%s/v1/elevation?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch elevations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &enrich.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("elevation provider returned status %d", resp.StatusCode),
			Err:      enrich.ErrProviderUnavailable,
		}
	}

	var result elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &enrich.Error{
			Provider: ProviderName,
			Code:     "BAD_RESPONSE",
			Message:  "decode elevation response: " + err.Error(),
			Err:      enrich.ErrProviderUnavailable,
		}
	}

	return result.Elevation, nil
}

// Ensure Client implements the provider interface.
var _ enrich.ElevationProvider = (*Client)(nil)
