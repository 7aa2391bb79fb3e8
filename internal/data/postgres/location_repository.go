package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// LocationRepository implements the registry.LocationRepository interface for PostgreSQL
type LocationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLocationRepository creates a new PostgreSQL location repository
func NewLocationRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.LocationRepository {
	return &LocationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *LocationRepository) WithTx(tx pgx.Tx) registry.LocationRepository {
	return &LocationRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new location
func (r *LocationRepository) Create(ctx context.Context, loc *registry.Location) error {
	query := `
		INSERT INTO locations (id, name, address, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		loc.ID,
		loc.Name,
		loc.Address,
		loc.Latitude,
		loc.Longitude,
		loc.CreatedAt,
		loc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create location", "location_id", loc.ID.String(), "error", err)
		return fmt.Errorf("failed to create location: %w", persistence.ClassifyError(err))
	}

	return nil
}

// GetByID retrieves a location by ID.
// Returns ErrLocationNotFound if the location doesn't exist.
func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Location, error) {
	query := `
		SELECT id, name, address, latitude, longitude, created_at, updated_at
		FROM locations
		WHERE id = $1
	`

	var loc registry.Location
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.Latitude,
		&loc.Longitude,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrLocationNotFound{ID: id}
		}
		r.logger.Error("Failed to get location", "location_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get location: %w", persistence.ClassifyError(err))
	}

	return &loc, nil
}

// List returns every location, newest first
func (r *LocationRepository) List(ctx context.Context) ([]*registry.Location, error) {
	query := `
		SELECT id, name, address, latitude, longitude, created_at, updated_at
		FROM locations
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list locations", "error", err)
		return nil, fmt.Errorf("failed to list locations: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	locations := []*registry.Location{}
	for rows.Next() {
		var loc registry.Location
		if err := rows.Scan(
			&loc.ID,
			&loc.Name,
			&loc.Address,
			&loc.Latitude,
			&loc.Longitude,
			&loc.CreatedAt,
			&loc.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan location", "error", err)
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, &loc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over locations", "error", err)
		return nil, fmt.Errorf("error iterating over locations: %w", persistence.ClassifyError(err))
	}

	return locations, nil
}

// Delete removes a location. Returns ErrLocationInUse while anything references it.
func (r *LocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM locations WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		if _, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
			return registry.ErrLocationInUse{ID: id}
		}
		r.logger.Error("Failed to delete location", "location_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete location: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return registry.ErrLocationNotFound{ID: id}
	}

	return nil
}
