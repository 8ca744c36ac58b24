package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/cyclemaps/cyclemaps/internal/api/models"
	"github.com/cyclemaps/cyclemaps/internal/api/response"
	"github.com/cyclemaps/cyclemaps/internal/enrich"
)

// maxEnrichCoordinates caps request size; routes longer than this should be
// simplified client-side before enrichment.
const maxEnrichCoordinates = 10000

// EnrichHandler handles route enrichment endpoints.
type EnrichHandler struct {
	enricher *enrich.Service
}

// NewEnrichHandler creates a new EnrichHandler.
func NewEnrichHandler(enricher *enrich.Service) *EnrichHandler {
	return &EnrichHandler{enricher: enricher}
}

// Elevation handles POST /v1/enrich/elevation - build an elevation profile
// for the submitted coordinates.
func (h *EnrichHandler) Elevation(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.decodeCoordinates(w, r, 1)
	if !ok {
		return
	}

	profile, err := h.enricher.BuildElevationProfile(r.Context(), coords)
	if err != nil {
		h.writeEnrichError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ElevationResponse{
		Elevations:     profile.Elevations,
		ElevationGainM: profile.ClimbMeters,
	})
}

// Surface handles POST /v1/enrich/surface - classify the route surface into
// paved, gravel, and dirt percentages.
func (h *EnrichHandler) Surface(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.decodeCoordinates(w, r, 2)
	if !ok {
		return
	}

	breakdown, err := h.enricher.ClassifySurface(r.Context(), coords)
	if err != nil {
		h.writeEnrichError(w, r, err)
		return
	}

	result := models.SurfaceResponse{
		Breakdown:   []models.SurfaceShare{},
		TotalPoints: breakdown.Matched,
	}
	for _, share := range breakdown.Shares {
		result.Breakdown = append(result.Breakdown, models.SurfaceShare{
			Surface: string(share.Bucket),
			Percent: share.Percent,
		})
	}

	response.JSON(w, r, http.StatusOK, result)
}

// decodeCoordinates parses and validates the request body. Coordinates come
// in as [longitude, latitude] pairs.
func (h *EnrichHandler) decodeCoordinates(w http.ResponseWriter, r *http.Request, minPoints int) ([]enrich.Coordinate, bool) {
	var input models.EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return nil, false
	}

	if len(input.Coordinates) < minPoints {
		response.BadRequest(w, r, fmt.Sprintf("at least %d coordinates are required", minPoints), nil)
		return nil, false
	}
	if len(input.Coordinates) > maxEnrichCoordinates {
		response.BadRequest(w, r, fmt.Sprintf("at most %d coordinates are allowed", maxEnrichCoordinates), nil)
		return nil, false
	}

	coords := make([]enrich.Coordinate, len(input.Coordinates))
	for i, pair := range input.Coordinates {
		if len(pair) != 2 {
			response.BadRequest(w, r, "coordinates must be [longitude, latitude] pairs", []models.FieldError{
				{Field: fmt.Sprintf("coordinates[%d]", i), Message: "must have exactly 2 elements"},
			})
			return nil, false
		}

		lng, lat := pair[0], pair[1]
		if !validLng(lng) || !validLat(lat) {
			response.BadRequest(w, r, "coordinates out of range", []models.FieldError{
				{Field: fmt.Sprintf("coordinates[%d]", i), Message: "longitude must be in [-180, 180] and latitude in [-90, 90]"},
			})
			return nil, false
		}

		coords[i] = enrich.Coordinate{Lng: lng, Lat: lat}
	}

	return coords, true
}

// writeEnrichError maps enrichment errors onto Problem responses.
func (h *EnrichHandler) writeEnrichError(w http.ResponseWriter, r *http.Request, err error) {
	var enrichErr *enrich.Error
	detail := "enrichment failed"
	if errors.As(err, &enrichErr) {
		detail = enrichErr.Message
	}

	switch {
	case errors.Is(err, enrich.ErrInvalidInput):
		response.BadRequest(w, r, detail, nil)
	case errors.Is(err, enrich.ErrProviderTimeout):
		response.GatewayTimeout(w, r, detail)
	case errors.Is(err, enrich.ErrProviderUnavailable):
		response.BadGateway(w, r, detail)
	default:
		response.InternalError(w, r, detail)
	}
}

func validLng(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -180 && v <= 180
}

func validLat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -90 && v <= 90
}
