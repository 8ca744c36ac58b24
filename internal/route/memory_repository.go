package route

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory implementation of Repository, used for
// tests and as a fallback when no database is reachable at startup.
type MemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewMemoryRepository creates a new in-memory route repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		routes: make(map[string]*Route),
	}
}

// Get retrieves a route by ID.
func (r *MemoryRepository) Get(_ context.Context, id string) (*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}

	copied := *rt
	return &copied, nil
}

// List retrieves all routes without geometry, newest first.
func (r *MemoryRepository) List(_ context.Context) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]Summary, 0, len(r.routes))
	for _, rt := range r.routes {
		summaries = append(summaries, rt.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

// ListWithGeometry retrieves all routes including geometry, newest first.
func (r *MemoryRepository) ListWithGeometry(_ context.Context) ([]*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]*Route, 0, len(r.routes))
	for _, rt := range r.routes {
		copied := *rt
		routes = append(routes, &copied)
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	return routes, nil
}

// Create stores a new route.
func (r *MemoryRepository) Create(_ context.Context, rt *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *rt
	r.routes[rt.ID] = &copied
	return nil
}

// Update replaces an existing route.
func (r *MemoryRepository) Update(_ context.Context, rt *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[rt.ID]; !ok {
		return ErrRouteNotFound
	}

	copied := *rt
	r.routes[rt.ID] = &copied
	return nil
}

// Delete removes a route by ID.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[id]; !ok {
		return ErrRouteNotFound
	}

	delete(r.routes, id)
	return nil
}

// Ensure MemoryRepository implements Repository interface.
var _ Repository = (*MemoryRepository)(nil)
