package route

import "context"

// Repository defines storage operations for routes.
type Repository interface {
	// Get retrieves a route by ID, including geometry.
	Get(ctx context.Context, id string) (*Route, error)

	// List retrieves all routes without geometry (lightweight).
	List(ctx context.Context) ([]Summary, error)

	// ListWithGeometry retrieves all routes including geometry.
	ListWithGeometry(ctx context.Context) ([]*Route, error)

	// Create stores a new route.
	Create(ctx context.Context, r *Route) error

	// Update replaces an existing route. Returns ErrRouteNotFound when the
	// ID does not exist.
	Update(ctx context.Context, r *Route) error

	// Delete removes a route by ID. Returns ErrRouteNotFound when the ID
	// does not exist.
	Delete(ctx context.Context, id string) error
}
