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

const (
	supervisorCodeConstraint  = "supervisors_code_key"
	supervisorEmailConstraint = "supervisors_email_key"
)

// SupervisorRepository implements the registry.SupervisorRepository interface for PostgreSQL
type SupervisorRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSupervisorRepository creates a new PostgreSQL supervisor repository
func NewSupervisorRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.SupervisorRepository {
	return &SupervisorRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *SupervisorRepository) WithTx(tx pgx.Tx) registry.SupervisorRepository {
	return &SupervisorRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new supervisor.
// Returns ErrDuplicateSupervisor when the code or email is taken.
func (r *SupervisorRepository) Create(ctx context.Context, s *registry.Supervisor) error {
	query := `
		INSERT INTO supervisors (id, code, name, mobile, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		s.ID,
		s.Code,
		s.Name,
		s.Mobile,
		s.Email,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateSupervisor(err); dup != nil {
			return dup
		}
		r.logger.Error("Failed to create supervisor", "supervisor_id", s.ID.String(), "error", err)
		return fmt.Errorf("failed to create supervisor: %w", persistence.ClassifyError(err))
	}

	return nil
}

// GetByID retrieves a supervisor by ID.
// Returns ErrSupervisorNotFound if the supervisor doesn't exist.
func (r *SupervisorRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Supervisor, error) {
	query := `
		SELECT id, code, name, mobile, email, is_active, created_at, updated_at
		FROM supervisors
		WHERE id = $1
	`

	var s registry.Supervisor
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Code,
		&s.Name,
		&s.Mobile,
		&s.Email,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrSupervisorNotFound{ID: id}
		}
		r.logger.Error("Failed to get supervisor", "supervisor_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get supervisor: %w", persistence.ClassifyError(err))
	}

	return &s, nil
}

// List returns supervisors in registry order, oldest first
func (r *SupervisorRepository) List(ctx context.Context) ([]*registry.Supervisor, error) {
	query := `
		SELECT id, code, name, mobile, email, is_active, created_at, updated_at
		FROM supervisors
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list supervisors", "error", err)
		return nil, fmt.Errorf("failed to list supervisors: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	supervisors := []*registry.Supervisor{}
	for rows.Next() {
		var s registry.Supervisor
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Mobile, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan supervisor", "error", err)
			return nil, fmt.Errorf("failed to scan supervisor: %w", err)
		}
		supervisors = append(supervisors, &s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over supervisors", "error", err)
		return nil, fmt.Errorf("error iterating over supervisors: %w", persistence.ClassifyError(err))
	}

	return supervisors, nil
}

// Update overwrites the mutable supervisor fields
func (r *SupervisorRepository) Update(ctx context.Context, s *registry.Supervisor) error {
	query := `
		UPDATE supervisors
		SET name = $1, mobile = $2, email = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.querier.Exec(ctx, query, s.Name, s.Mobile, s.Email, s.IsActive, s.UpdatedAt, s.ID)
	if err != nil {
		if dup := duplicateSupervisor(err); dup != nil {
			return dup
		}
		r.logger.Error("Failed to update supervisor", "supervisor_id", s.ID.String(), "error", err)
		return fmt.Errorf("failed to update supervisor: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return registry.ErrSupervisorNotFound{ID: s.ID}
	}

	return nil
}

// Delete removes a supervisor. Returns ErrSupervisorInUse while anything references it.
func (r *SupervisorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM supervisors WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		if _, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
			return registry.ErrSupervisorInUse{ID: id}
		}
		r.logger.Error("Failed to delete supervisor", "supervisor_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete supervisor: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return registry.ErrSupervisorNotFound{ID: id}
	}

	return nil
}

func duplicateSupervisor(err error) error {
	constraint, ok := persistence.ConstraintViolation(err, persistence.PgUniqueViolation)
	if !ok {
		return nil
	}
	switch constraint {
	case supervisorCodeConstraint:
		return registry.ErrDuplicateSupervisor{Field: "code"}
	case supervisorEmailConstraint:
		return registry.ErrDuplicateSupervisor{Field: "email"}
	default:
		return registry.ErrDuplicateSupervisor{Field: "id"}
	}
}
