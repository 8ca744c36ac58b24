package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyclemaps/cyclemaps/internal/api/models"
	"github.com/cyclemaps/cyclemaps/internal/api/response"
	"github.com/cyclemaps/cyclemaps/internal/gpx"
	"github.com/cyclemaps/cyclemaps/internal/route"
)

// RouteHandler handles route CRUD and export endpoints.
type RouteHandler struct {
	routes *route.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routes *route.Service) *RouteHandler {
	return &RouteHandler{routes: routes}
}

// ListRoutes handles GET /v1/routes - list all routes without geometry.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.routes.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list routes")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{"routes": summaries})
}

// ListRoutesGeoJSON handles GET /v1/routes/geojson - all routes as a
// FeatureCollection for the map viewer.
func (h *RouteHandler) ListRoutesGeoJSON(w http.ResponseWriter, r *http.Request) {
	collection, err := h.routes.GeoJSON(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to build feature collection")
		return
	}

	response.JSON(w, r, http.StatusOK, collection)
}

// GetRoute handles GET /v1/routes/{routeId} - get a single route.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	rt, err := h.routes.Get(r.Context(), routeID)
	if err != nil {
		h.writeRouteError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rt)
}

// CreateRoute handles POST /v1/routes - create a route.
func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	rt, err := h.routes.Create(r.Context(), &input)
	if err != nil {
		h.writeRouteError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/routes/%s", rt.ID)
	response.Created(w, r, location, rt)
}

// UpdateRoute handles PUT /v1/routes/{routeId} - update a route.
func (h *RouteHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	var input models.RouteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	rt, err := h.routes.Update(r.Context(), routeID, &input)
	if err != nil {
		h.writeRouteError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rt)
}

// DeleteRoute handles DELETE /v1/routes/{routeId} - delete a route.
func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	if err := h.routes.Delete(r.Context(), routeID); err != nil {
		h.writeRouteError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// ExportGPX handles GET /v1/routes/{routeId}/gpx - export the route geometry
// as a GPX track for bike computers.
func (h *RouteHandler) ExportGPX(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	name, coords, err := h.routes.Geometry(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, route.ErrNoGeometry) {
			response.BadRequest(w, r, "route has no exportable geometry", nil)
			return
		}
		h.writeRouteError(w, r, err)
		return
	}

	doc, err := gpx.Encode(name, coords)
	if err != nil {
		response.InternalError(w, r, "failed to encode GPX")
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", routeID+".gpx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// writeRouteError maps service errors onto Problem responses.
func (h *RouteHandler) writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *route.ValidationError
	switch {
	case errors.Is(err, route.ErrRouteNotFound):
		response.NotFound(w, r, "route not found")
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation failed", validationErr.Errors)
	default:
		response.InternalError(w, r, "route operation failed")
	}
}
