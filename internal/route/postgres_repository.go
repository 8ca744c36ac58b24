package route

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const routeColumns = `
	id, name, description, route_type, region,
	distance_km, elevation_m, geometry, waypoints,
	center_lng, center_lat, elevation_profile, surface_data,
	created_at, updated_at
`

// Get retrieves a route by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	var rt Route
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rt.ID,
		&rt.Name,
		&rt.Description,
		&rt.RouteType,
		&rt.Region,
		&rt.DistanceKm,
		&rt.ElevationM,
		&rt.Geometry,
		&rt.Waypoints,
		&rt.CenterLng,
		&rt.CenterLat,
		&rt.ElevationProfile,
		&rt.SurfaceData,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &rt, nil
}

// List retrieves all routes without geometry.
func (r *PostgresRepository) List(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT
			id, name, description, route_type, region,
			distance_km, elevation_m, center_lng, center_lat,
			created_at, updated_at
		FROM routes
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.RouteType,
			&s.Region,
			&s.DistanceKm,
			&s.ElevationM,
			&s.CenterLng,
			&s.CenterLat,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// ListWithGeometry retrieves all routes including geometry.
func (r *PostgresRepository) ListWithGeometry(ctx context.Context) ([]*Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*Route
	for rows.Next() {
		var rt Route
		err := rows.Scan(
			&rt.ID,
			&rt.Name,
			&rt.Description,
			&rt.RouteType,
			&rt.Region,
			&rt.DistanceKm,
			&rt.ElevationM,
			&rt.Geometry,
			&rt.Waypoints,
			&rt.CenterLng,
			&rt.CenterLat,
			&rt.ElevationProfile,
			&rt.SurfaceData,
			&rt.CreatedAt,
			&rt.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, &rt)
	}

	return routes, rows.Err()
}

// Create stores a new route.
func (r *PostgresRepository) Create(ctx context.Context, rt *Route) error {
	query := `
		INSERT INTO routes (` + routeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query,
		rt.ID,
		rt.Name,
		rt.Description,
		rt.RouteType,
		rt.Region,
		rt.DistanceKm,
		rt.ElevationM,
		rt.Geometry,
		rt.Waypoints,
		rt.CenterLng,
		rt.CenterLat,
		rt.ElevationProfile,
		rt.SurfaceData,
		rt.CreatedAt,
		rt.UpdatedAt,
	)
	return err
}

// Update replaces an existing route.
func (r *PostgresRepository) Update(ctx context.Context, rt *Route) error {
	query := `
		UPDATE routes SET
			name = $2,
			description = $3,
			route_type = $4,
			region = $5,
			distance_km = $6,
			elevation_m = $7,
			geometry = $8,
			waypoints = $9,
			center_lng = $10,
			center_lat = $11,
			elevation_profile = $12,
			surface_data = $13,
			updated_at = $14
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		rt.ID,
		rt.Name,
		rt.Description,
		rt.RouteType,
		rt.Region,
		rt.DistanceKm,
		rt.ElevationM,
		rt.Geometry,
		rt.Waypoints,
		rt.CenterLng,
		rt.CenterLat,
		rt.ElevationProfile,
		rt.SurfaceData,
		rt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}

	return nil
}

// Delete removes a route by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
