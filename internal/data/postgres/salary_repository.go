package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

const salaryColumns = `id, supervisor_id, amount::text, month, year, paid_date, created_at, updated_at`

// SalaryRepository implements the workforce.SalaryRepository interface for PostgreSQL
type SalaryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSalaryRepository creates a new PostgreSQL salary repository
func NewSalaryRepository(logger *slog.Logger, db *persistence.PostgresDB) workforce.SalaryRepository {
	return &SalaryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *SalaryRepository) WithTx(tx pgx.Tx) workforce.SalaryRepository {
	return &SalaryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a salary record. The (supervisor, month, year) key must be free.
func (r *SalaryRepository) Create(ctx context.Context, s *workforce.Salary) error {
	query := `
		INSERT INTO salaries (id, supervisor_id, amount, month, year, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		s.ID,
		s.SupervisorID,
		s.Amount.String(),
		s.Month,
		s.Year,
		s.PaidDate,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if mapped := salaryViolation(err, s); mapped != nil {
			return mapped
		}
		r.logger.Error("Failed to create salary", "supervisor_id", s.SupervisorID.String(), "error", err)
		return fmt.Errorf("failed to create salary: %w", persistence.ClassifyError(err))
	}

	return nil
}

// Upsert records the salary for a period, replacing amount and paid date when
// the period is already booked.
func (r *SalaryRepository) Upsert(ctx context.Context, s *workforce.Salary) (*workforce.Salary, error) {
	query := `
		INSERT INTO salaries (id, supervisor_id, amount, month, year, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT salaries_supervisor_period_key
		DO UPDATE SET amount = EXCLUDED.amount, paid_date = EXCLUDED.paid_date, updated_at = EXCLUDED.updated_at
		RETURNING ` + salaryColumns

	stored, err := scanSalary(r.querier.QueryRow(ctx, query,
		s.ID,
		s.SupervisorID,
		s.Amount.String(),
		s.Month,
		s.Year,
		s.PaidDate,
		s.CreatedAt,
		s.UpdatedAt,
	))
	if err != nil {
		if mapped := salaryViolation(err, s); mapped != nil {
			return nil, mapped
		}
		r.logger.Error("Failed to mark salary", "supervisor_id", s.SupervisorID.String(), "error", err)
		return nil, fmt.Errorf("failed to mark salary: %w", persistence.ClassifyError(err))
	}

	return stored, nil
}

// GetByID retrieves a salary record by ID
func (r *SalaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*workforce.Salary, error) {
	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE id = $1`

	s, err := scanSalary(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workforce.ErrSalaryNotFound{ID: id}
		}
		r.logger.Error("Failed to get salary", "salary_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get salary: %w", persistence.ClassifyError(err))
	}

	return s, nil
}

// ListBySupervisor returns the salary history of one supervisor, newest period first
func (r *SalaryRepository) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Salary, error) {
	query := `
		SELECT ` + salaryColumns + `
		FROM salaries
		WHERE supervisor_id = $1
		ORDER BY year DESC, month DESC
	`

	rows, err := r.querier.Query(ctx, query, supervisorID)
	if err != nil {
		r.logger.Error("Failed to list salaries", "supervisor_id", supervisorID.String(), "error", err)
		return nil, fmt.Errorf("failed to list salaries: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	records := []*workforce.Salary{}
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		records = append(records, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over salaries: %w", persistence.ClassifyError(err))
	}

	return records, nil
}

// Update overwrites a salary record. Moving it onto a booked period is a conflict.
func (r *SalaryRepository) Update(ctx context.Context, s *workforce.Salary) error {
	query := `
		UPDATE salaries
		SET amount = $1, month = $2, year = $3, paid_date = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.querier.Exec(ctx, query, s.Amount.String(), s.Month, s.Year, s.PaidDate, s.UpdatedAt, s.ID)
	if err != nil {
		if mapped := salaryViolation(err, s); mapped != nil {
			return mapped
		}
		r.logger.Error("Failed to update salary", "salary_id", s.ID.String(), "error", err)
		return fmt.Errorf("failed to update salary: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return workforce.ErrSalaryNotFound{ID: s.ID}
	}

	return nil
}

// Delete removes a salary record
func (r *SalaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete salary", "salary_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete salary: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return workforce.ErrSalaryNotFound{ID: id}
	}

	return nil
}

func scanSalary(row pgx.Row) (*workforce.Salary, error) {
	var (
		s      workforce.Salary
		amount string
	)
	if err := row.Scan(&s.ID, &s.SupervisorID, &amount, &s.Month, &s.Year, &s.PaidDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if s.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return &s, nil
}

func salaryViolation(err error, s *workforce.Salary) error {
	if _, ok := persistence.ConstraintViolation(err, persistence.PgUniqueViolation); ok {
		return workforce.ErrDuplicateSalary{SupervisorID: s.SupervisorID, Month: s.Month, Year: s.Year}
	}
	if _, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
		return registry.ErrSupervisorNotFound{ID: s.SupervisorID}
	}
	return nil
}
