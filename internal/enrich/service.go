package enrich

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// Default per-call deadlines for the two providers.
const (
	DefaultElevationTimeout = 15 * time.Second
	DefaultWayLookupTimeout = 25 * time.Second
)

// ProviderObserver receives timing information about provider calls.
type ProviderObserver interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// noopObserver is used when no observer is configured.
type noopObserver struct{}

func (noopObserver) RecordRequest(string, string, time.Duration, error) {}

// ServiceConfig holds configuration for the enrichment service.
type ServiceConfig struct {
	// Elevation is the elevation data provider (required for elevation profiles).
	Elevation ElevationProvider

	// Ways is the way-lookup provider (required for surface classification).
	Ways WayProvider

	// Logger for service operations.
	Logger zerolog.Logger

	// ElevationTimeout bounds each elevation batch request (default: 15s).
	ElevationTimeout time.Duration

	// WayLookupTimeout bounds the way-lookup request (default: 25s).
	WayLookupTimeout time.Duration

	// Observer receives provider call timings (optional).
	Observer ProviderObserver
}

// Service enriches routes with elevation profiles and surface breakdowns.
// It holds no per-request state; a failed enrichment leaves nothing behind.
type Service struct {
	elevation        ElevationProvider
	ways             WayProvider
	logger           zerolog.Logger
	elevationTimeout time.Duration
	wayLookupTimeout time.Duration
	observer         ProviderObserver
}

// NewService creates a new enrichment service.
func NewService(cfg ServiceConfig) *Service {
	elevationTimeout := cfg.ElevationTimeout
	if elevationTimeout == 0 {
		elevationTimeout = DefaultElevationTimeout
	}

	wayLookupTimeout := cfg.WayLookupTimeout
	if wayLookupTimeout == 0 {
		wayLookupTimeout = DefaultWayLookupTimeout
	}

	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	return &Service{
		elevation:        cfg.Elevation,
		ways:             cfg.Ways,
		logger:           cfg.Logger,
		elevationTimeout: elevationTimeout,
		wayLookupTimeout: wayLookupTimeout,
		observer:         observer,
	}
}

// classifyProviderError maps a raw provider failure onto the error taxonomy.
// Errors already carrying enrichment context pass through unchanged; deadline
// and network timeouts become ErrProviderTimeout, everything else
// ErrProviderUnavailable.
func classifyProviderError(provider string, err error) error {
	var enrichErr *Error
	if errors.As(err, &enrichErr) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Provider: provider,
			Code:     "TIMEOUT",
			Message:  "provider request timed out",
			Err:      ErrProviderTimeout,
		}
	}

	return &Error{
		Provider: provider,
		Code:     "REQUEST_FAILED",
		Message:  "failed to reach provider",
		Err:      ErrProviderUnavailable,
	}
}
