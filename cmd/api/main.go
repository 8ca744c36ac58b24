// Package main provides the entrypoint for the CycleMaps API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cyclemaps/cyclemaps/internal/api"
	"github.com/cyclemaps/cyclemaps/internal/api/handler"
	"github.com/cyclemaps/cyclemaps/internal/api/middleware"
	"github.com/cyclemaps/cyclemaps/internal/database"
	"github.com/cyclemaps/cyclemaps/internal/enrich"
	"github.com/cyclemaps/cyclemaps/internal/enrich/openmeteo"
	"github.com/cyclemaps/cyclemaps/internal/enrich/overpass"
	"github.com/cyclemaps/cyclemaps/internal/route"
	"github.com/cyclemaps/cyclemaps/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "cyclemaps-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting CycleMaps API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Connect to database, falling back to the in-memory store for local
	// development when Postgres is unreachable.
	var (
		routeRepo route.Repository
		pool      *pgxpool.Pool
	)
	dbConfig := database.ConfigFromEnv()
	pool, err = database.Connect(ctx, dbConfig)
	if err != nil {
		log.Warn().Err(err).Msg("database unreachable, using in-memory route store")
		routeRepo = route.NewMemoryRepository()
	} else {
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
		routeRepo = route.NewPostgresRepository(pool)
	}

	// Initialize route service
	routeService := route.NewService(routeRepo)
	log.Info().Msg("route service initialized")

	// Initialize enrichment providers and service
	elevationProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL: os.Getenv("OPEN_METEO_BASE_URL"),
	})
	wayProvider := overpass.NewClient(overpass.ClientConfig{
		BaseURL: os.Getenv("OVERPASS_BASE_URL"),
	})

	enrichService := enrich.NewService(enrich.ServiceConfig{
		Elevation: elevationProvider,
		Ways:      wayProvider,
		Logger:    log,
		Observer:  providerMetrics,
	})
	log.Info().
		Str("elevation_provider", elevationProvider.Name()).
		Str("way_provider", wayProvider.Name()).
		Msg("enrichment service initialized")

	// Create router with configuration
	var store handler.Pinger
	if pool != nil {
		store = pool
	}
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		RouteService:  routeService,
		EnrichService: enrichService,
		Store:         store,
	})

	// Create HTTP server. Write timeout is generous because elevation
	// enrichment issues sequential provider batches.
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
