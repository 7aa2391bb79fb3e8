package workforce

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// AttendanceRepository manages attendance persistence
type AttendanceRepository interface {
	// Upsert inserts or replaces the status for (supervisor, date) and returns the stored row
	Upsert(ctx context.Context, a *Attendance) (*Attendance, error)
	// ListBySupervisor returns records newest date first
	ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*Attendance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalaryRepository manages salary persistence
type SalaryRepository interface {
	// Create fails with ErrDuplicateSalary when the (supervisor, month, year) key exists
	Create(ctx context.Context, s *Salary) error
	// Upsert inserts or replaces the record for (supervisor, month, year)
	Upsert(ctx context.Context, s *Salary) (*Salary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Salary, error)
	// ListBySupervisor returns records newest period first
	ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*Salary, error)
	Update(ctx context.Context, s *Salary) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) SalaryRepository
}

// ErrAttendanceNotFound indicates missing attendance record
type ErrAttendanceNotFound struct {
	ID uuid.UUID
}

func (e ErrAttendanceNotFound) Error() string {
	return "attendance record not found: " + e.ID.String()
}

func (e ErrAttendanceNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrAttendanceNotFound) Is(target error) bool {
	t, ok := target.(ErrAttendanceNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}

// ErrSalaryNotFound indicates missing salary record
type ErrSalaryNotFound struct {
	ID uuid.UUID
}

func (e ErrSalaryNotFound) Error() string {
	return "salary record not found: " + e.ID.String()
}

func (e ErrSalaryNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrSalaryNotFound) Is(target error) bool {
	t, ok := target.(ErrSalaryNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}

// ErrDuplicateSalary indicates a (supervisor, month, year) uniqueness violation
type ErrDuplicateSalary struct {
	SupervisorID uuid.UUID
	Month        int
	Year         int
}

func (e ErrDuplicateSalary) Error() string {
	return "salary already recorded for supervisor " + e.SupervisorID.String() +
		" in " + strconv.Itoa(e.Month) + "/" + strconv.Itoa(e.Year)
}

func (e ErrDuplicateSalary) Kind() shared.ErrorKind { return shared.KindConflict }

func (e ErrDuplicateSalary) Is(target error) bool {
	t, ok := target.(ErrDuplicateSalary)
	if !ok {
		return false
	}
	return t.SupervisorID == uuid.Nil || e.SupervisorID == t.SupervisorID
}
