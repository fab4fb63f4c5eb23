package location

import (
	"context"
	"database/sql"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type LocationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db}
}

func (r *LocationRepository) LoadLocation(ctx context.Context, id uuid.UUID) (Location, error) {
	const query = `
		SELECT *
		FROM location
		WHERE id = $1;`

	return tql.QueryFirst[Location](ctx, r.db, query, id)
}

func (r *LocationRepository) ListLocations(ctx context.Context) ([]Location, error) {
	const query = `
		SELECT *
		FROM location
		ORDER BY name;`

	return tql.Query[Location](ctx, r.db, query)
}

func (r *LocationRepository) SaveLocation(ctx context.Context, location Location) error {
	const stmt = `
		INSERT INTO location (id, slug, name, address, court_count, indoor, description)
		VALUES (:id, :slug, :name, :address, :court_count, :indoor, :description)
		ON CONFLICT (id)
		DO
		UPDATE
		SET slug=:slug, name=:name, address=:address, court_count=:court_count,
		    indoor=:indoor, description=:description
		WHERE location.id=:id;`

	_, err := tql.Exec(ctx, r.db, stmt, location)
	return err
}
