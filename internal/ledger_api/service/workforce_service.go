package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/sitebooks-ledger/internal/platform/notify"
)

// WorkforceServiceImpl implements the WorkforceService interface
type WorkforceServiceImpl struct {
	attendance  workforce.AttendanceRepository
	salaries    workforce.SalaryRepository
	supervisors registry.SupervisorRepository
	sink        notify.Sink
	logger      *slog.Logger
}

// NewWorkforceService creates a new workforce service
func NewWorkforceService(
	logger *slog.Logger,
	attendance workforce.AttendanceRepository,
	salaries workforce.SalaryRepository,
	supervisors registry.SupervisorRepository,
	sink notify.Sink,
) WorkforceService {
	return &WorkforceServiceImpl{
		attendance:  attendance,
		salaries:    salaries,
		supervisors: supervisors,
		sink:        sink,
		logger:      logger,
	}
}

// MarkAttendance upserts the day's status. Marking the same day twice keeps
// one record carrying the latest status.
func (s *WorkforceServiceImpl) MarkAttendance(ctx context.Context, supervisorID uuid.UUID, date time.Time, status string) (*workforce.Attendance, error) {
	a, err := workforce.NewAttendance(supervisorID, date, status)
	if err != nil {
		return nil, err
	}
	if _, err := s.supervisors.GetByID(ctx, supervisorID); err != nil {
		return nil, err
	}

	stored, err := s.attendance.Upsert(ctx, a)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Attendance marked",
		"supervisor_id", supervisorID.String(),
		"date", stored.Date.Format(time.DateOnly),
		"status", string(stored.Status),
	)
	return stored, nil
}

func (s *WorkforceServiceImpl) AttendanceHistory(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Attendance, error) {
	if _, err := s.supervisors.GetByID(ctx, supervisorID); err != nil {
		return nil, err
	}
	return s.attendance.ListBySupervisor(ctx, supervisorID)
}

func (s *WorkforceServiceImpl) DeleteAttendance(ctx context.Context, id uuid.UUID) error {
	return s.attendance.Delete(ctx, id)
}

func (s *WorkforceServiceImpl) AddSalary(ctx context.Context, in SalaryInput) (*workforce.Salary, error) {
	sal, sup, err := s.newSalary(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.salaries.Create(ctx, sal); err != nil {
		return nil, err
	}

	s.salaryPaid(ctx, sal, sup)
	return sal, nil
}

func (s *WorkforceServiceImpl) MarkSalary(ctx context.Context, in SalaryInput) (*workforce.Salary, error) {
	sal, sup, err := s.newSalary(ctx, in)
	if err != nil {
		return nil, err
	}

	stored, err := s.salaries.Upsert(ctx, sal)
	if err != nil {
		return nil, err
	}

	s.salaryPaid(ctx, stored, sup)
	return stored, nil
}

func (s *WorkforceServiceImpl) SalaryHistory(ctx context.Context, supervisorID uuid.UUID) (*workforce.SalaryHistory, error) {
	if _, err := s.supervisors.GetByID(ctx, supervisorID); err != nil {
		return nil, err
	}

	records, err := s.salaries.ListBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	history := workforce.NewSalaryHistory(records)
	return &history, nil
}

func (s *WorkforceServiceImpl) GetSalary(ctx context.Context, id uuid.UUID) (*workforce.Salary, error) {
	return s.salaries.GetByID(ctx, id)
}

// UpdateSalary returns ErrDuplicateSalary when the new period is already paid
func (s *WorkforceServiceImpl) UpdateSalary(ctx context.Context, id uuid.UUID, patch workforce.SalaryPatch) (*workforce.Salary, error) {
	sal, err := s.salaries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sal.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.salaries.Update(ctx, sal); err != nil {
		return nil, err
	}
	return sal, nil
}

func (s *WorkforceServiceImpl) DeleteSalary(ctx context.Context, id uuid.UUID) error {
	return s.salaries.Delete(ctx, id)
}

func (s *WorkforceServiceImpl) newSalary(ctx context.Context, in SalaryInput) (*workforce.Salary, *registry.Supervisor, error) {
	if in.Amount == nil {
		return nil, nil, shared.InvalidArgument("amount", "is required")
	}

	sal, err := workforce.NewSalary(in.SupervisorID, *in.Amount, in.Month, in.Year, in.PaidDate)
	if err != nil {
		return nil, nil, err
	}

	sup, err := s.supervisors.GetByID(ctx, sal.SupervisorID)
	if err != nil {
		return nil, nil, err
	}
	return sal, sup, nil
}

func (s *WorkforceServiceImpl) salaryPaid(ctx context.Context, sal *workforce.Salary, sup *registry.Supervisor) {
	s.logger.Info("Salary recorded",
		"salary_id", sal.ID.String(),
		"supervisor_id", sal.SupervisorID.String(),
		"period", fmt.Sprintf("%02d/%d", sal.Month, sal.Year),
	)
	s.sink.Emit(ctx, "Salary Paid",
		fmt.Sprintf("Salary of %s paid to %s for %02d/%d", sal.Amount.String(), sup.Name, sal.Month, sal.Year),
		notification.CategorySupervisor,
	)
}
