package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// AttendanceRepository implements the workforce.AttendanceRepository interface for PostgreSQL
type AttendanceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository
func NewAttendanceRepository(logger *slog.Logger, db *persistence.PostgresDB) workforce.AttendanceRepository {
	return &AttendanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Upsert records the status for a supervisor and day. Marking the same day
// again replaces the status and keeps the original id.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *workforce.Attendance) (*workforce.Attendance, error) {
	query := `
		INSERT INTO attendance (id, supervisor_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (supervisor_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING id, supervisor_id, date, status, created_at, updated_at
	`

	var stored workforce.Attendance
	err := r.querier.QueryRow(ctx, query,
		a.ID,
		a.SupervisorID,
		a.Date,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&stored.ID, &stored.SupervisorID, &stored.Date, &stored.Status, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if _, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
			return nil, registry.ErrSupervisorNotFound{ID: a.SupervisorID}
		}
		r.logger.Error("Failed to mark attendance", "supervisor_id", a.SupervisorID.String(), "error", err)
		return nil, fmt.Errorf("failed to mark attendance: %w", persistence.ClassifyError(err))
	}

	return &stored, nil
}

// ListBySupervisor returns the attendance of one supervisor, newest day first
func (r *AttendanceRepository) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Attendance, error) {
	query := `
		SELECT id, supervisor_id, date, status, created_at, updated_at
		FROM attendance
		WHERE supervisor_id = $1
		ORDER BY date DESC
	`

	rows, err := r.querier.Query(ctx, query, supervisorID)
	if err != nil {
		r.logger.Error("Failed to list attendance", "supervisor_id", supervisorID.String(), "error", err)
		return nil, fmt.Errorf("failed to list attendance: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	records := []*workforce.Attendance{}
	for rows.Next() {
		var a workforce.Attendance
		if err := rows.Scan(&a.ID, &a.SupervisorID, &a.Date, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over attendance: %w", persistence.ClassifyError(err))
	}

	return records, nil
}

// Delete removes one attendance record
func (r *AttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete attendance", "attendance_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete attendance: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return workforce.ErrAttendanceNotFound{ID: id}
	}

	return nil
}
