package route

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cyclemaps/cyclemaps/internal/api/models"
	"github.com/cyclemaps/cyclemaps/pkg/geojson"
)

// Service errors.
var (
	ErrNoGeometry = errors.New("route has no geometry")
)

// Validation constants.
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
)

// Service provides route CRUD operations and derived views.
type Service struct {
	repo Repository
}

// NewService creates a new route service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all routes without geometry.
func (s *Service) List(ctx context.Context) ([]models.RouteSummary, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.RouteSummary, 0, len(summaries))
	for i := range summaries {
		items = append(items, toAPISummary(&summaries[i]))
	}
	return items, nil
}

// GeoJSON returns all routes as a GeoJSON FeatureCollection for the map
// viewer. Routes with empty or malformed geometry are skipped rather than
// failing the whole collection.
func (s *Service) GeoJSON(ctx context.Context) (*models.FeatureCollection, error) {
	routes, err := s.repo.ListWithGeometry(ctx)
	if err != nil {
		return nil, err
	}

	collection := &models.FeatureCollection{
		Type:     "FeatureCollection",
		Features: []models.Feature{},
	}

	for _, rt := range routes {
		if rt.Geometry == "" || !json.Valid([]byte(rt.Geometry)) {
			continue
		}

		collection.Features = append(collection.Features, models.Feature{
			Type:     "Feature",
			Geometry: json.RawMessage(rt.Geometry),
			Properties: models.FeatureProperties{
				ID:          rt.ID,
				Name:        rt.Name,
				Description: rt.Description,
				RouteType:   rt.RouteType,
				Region:      rt.Region,
				DistanceKm:  rt.DistanceKm,
				ElevationM:  rt.ElevationM,
			},
		})
	}

	return collection, nil
}

// Get retrieves a single route with full geometry and waypoints.
func (s *Service) Get(ctx context.Context, id string) (*models.Route, error) {
	rt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toAPIRoute(rt)
	return &result, nil
}

// Create creates a new route. Distance and center are derived from the
// geometry when the caller leaves them unset.
func (s *Service) Create(ctx context.Context, input *models.RouteCreateRequest) (*models.Route, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	rt := &Route{
		ID:               "rte_" + uuid.New().String()[:22],
		Name:             input.Name,
		Description:      input.Description,
		RouteType:        defaultString(input.RouteType, "road"),
		Region:           input.Region,
		DistanceKm:       input.DistanceKm,
		ElevationM:       input.ElevationM,
		Geometry:         input.Geometry,
		Waypoints:        defaultString(input.Waypoints, "[]"),
		CenterLng:        input.CenterLng,
		CenterLat:        input.CenterLat,
		ElevationProfile: input.ElevationProfile,
		SurfaceData:      input.SurfaceData,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	deriveFromGeometry(rt)

	if err := s.repo.Create(ctx, rt); err != nil {
		return nil, err
	}

	result := toAPIRoute(rt)
	return &result, nil
}

// Update updates an existing route.
func (s *Service) Update(ctx context.Context, id string, input *models.RouteUpdateRequest) (*models.Route, error) {
	rt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Name != nil {
		rt.Name = *input.Name
	}
	if input.Description != nil {
		rt.Description = *input.Description
	}
	if input.RouteType != nil {
		rt.RouteType = *input.RouteType
	}
	if input.Region != nil {
		rt.Region = *input.Region
	}
	if input.DistanceKm != nil {
		rt.DistanceKm = *input.DistanceKm
	}
	if input.ElevationM != nil {
		rt.ElevationM = *input.ElevationM
	}
	if input.Geometry != nil {
		rt.Geometry = *input.Geometry
	}
	if input.Waypoints != nil {
		rt.Waypoints = *input.Waypoints
	}
	if input.CenterLng != nil {
		rt.CenterLng = *input.CenterLng
	}
	if input.CenterLat != nil {
		rt.CenterLat = *input.CenterLat
	}
	if input.ElevationProfile != nil {
		rt.ElevationProfile = *input.ElevationProfile
	}
	if input.SurfaceData != nil {
		rt.SurfaceData = *input.SurfaceData
	}
	rt.UpdatedAt = time.Now()

	if input.Geometry != nil {
		deriveFromGeometry(rt)
	}

	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	result := toAPIRoute(rt)
	return &result, nil
}

// Delete deletes a route by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Geometry returns the decoded coordinate sequence of a stored route, for
// callers that feed it to the enrichment engine or the GPX exporter.
func (s *Service) Geometry(ctx context.Context, id string) (string, []geojson.Coordinate, error) {
	rt, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}

	if rt.Geometry == "" {
		return "", nil, ErrNoGeometry
	}

	coords, err := geojson.ParseLineString(rt.Geometry)
	if err != nil {
		return "", nil, ErrNoGeometry
	}

	return rt.Name, coords, nil
}

// deriveFromGeometry fills distance and center from the geometry when the
// caller left them at zero. Malformed geometry is left for the viewer to
// skip, matching the listing behavior.
func deriveFromGeometry(rt *Route) {
	if rt.Geometry == "" {
		return
	}

	coords, err := geojson.ParseLineString(rt.Geometry)
	if err != nil || len(coords) == 0 {
		return
	}

	if rt.DistanceKm == 0 {
		rt.DistanceKm = math.Round(geojson.LengthMeters(coords)/100) / 10
	}
	if rt.CenterLng == 0 && rt.CenterLat == 0 {
		rt.CenterLng, rt.CenterLat = geojson.Center(coords)
	}
}

func validateCreateInput(input *models.RouteCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
	}

	if len(input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}

	return errs
}

func validateUpdateInput(input *models.RouteUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Name != nil {
		if *input.Name == "" {
			errs = append(errs, models.FieldError{Field: "name", Message: "cannot be empty"})
		} else if len(*input.Name) > MaxNameLength {
			errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
		}
	}

	if input.Description != nil && len(*input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}

	return errs
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func toAPIRoute(rt *Route) models.Route {
	return models.Route{
		ID:               rt.ID,
		Name:             rt.Name,
		Description:      rt.Description,
		RouteType:        rt.RouteType,
		Region:           rt.Region,
		DistanceKm:       rt.DistanceKm,
		ElevationM:       rt.ElevationM,
		Geometry:         rt.Geometry,
		Waypoints:        rt.Waypoints,
		CenterLng:        rt.CenterLng,
		CenterLat:        rt.CenterLat,
		ElevationProfile: rt.ElevationProfile,
		SurfaceData:      rt.SurfaceData,
		CreatedAt:        models.Timestamp(rt.CreatedAt),
		UpdatedAt:        models.Timestamp(rt.UpdatedAt),
	}
}

func toAPISummary(s *Summary) models.RouteSummary {
	return models.RouteSummary{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		RouteType:   s.RouteType,
		Region:      s.Region,
		DistanceKm:  s.DistanceKm,
		ElevationM:  s.ElevationM,
		CenterLng:   s.CenterLng,
		CenterLat:   s.CenterLat,
		CreatedAt:   models.Timestamp(s.CreatedAt),
		UpdatedAt:   models.Timestamp(s.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
