package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWorkforceServiceWithMocks() (WorkforceService, *MockAttendanceRepository, *MockSalaryRepository, *MockSupervisorRepository, *MockSink) {
	attendance := new(MockAttendanceRepository)
	salaries := new(MockSalaryRepository)
	supervisors := new(MockSupervisorRepository)
	sink := new(MockSink)
	return NewWorkforceService(newTestLogger(), attendance, salaries, supervisors, sink), attendance, salaries, supervisors, sink
}

func TestWorkforceService_Attendance(t *testing.T) {
	sup := &registry.Supervisor{ID: uuid.New(), Code: "SUP-1", Name: "Ravi"}
	day := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

	t.Run("MarkNormalisesDate", func(t *testing.T) {
		svc, attendance, _, supervisors, _ := newWorkforceServiceWithMocks()
		supervisors.On("GetByID", mock.Anything, sup.ID).Return(sup, nil).Once()
		attendance.On("Upsert", mock.Anything, mock.MatchedBy(func(a *workforce.Attendance) bool {
			return a.Date.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) && a.Status == workforce.AttendanceLeave
		})).Return(&workforce.Attendance{ID: uuid.New(), SupervisorID: sup.ID, Status: workforce.AttendanceLeave}, nil).Once()

		got, err := svc.MarkAttendance(context.Background(), sup.ID, day, "leave")
		require.NoError(t, err)
		assert.Equal(t, workforce.AttendanceLeave, got.Status)
		attendance.AssertExpectations(t)
	})

	t.Run("UnknownSupervisor", func(t *testing.T) {
		svc, attendance, _, supervisors, _ := newWorkforceServiceWithMocks()
		supervisors.On("GetByID", mock.Anything, sup.ID).Return(nil, registry.ErrSupervisorNotFound{ID: sup.ID}).Once()

		_, err := svc.MarkAttendance(context.Background(), sup.ID, day, "present")
		assert.ErrorIs(t, err, registry.ErrSupervisorNotFound{ID: sup.ID})
		attendance.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc, _, _, supervisors, _ := newWorkforceServiceWithMocks()
		_, err := svc.MarkAttendance(context.Background(), sup.ID, day, "sick")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument{Field: "status"})
		supervisors.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestWorkforceService_Salary(t *testing.T) {
	sup := &registry.Supervisor{ID: uuid.New(), Code: "SUP-1", Name: "Ravi"}
	in := SalaryInput{SupervisorID: sup.ID, Amount: decimalPtr("25000"), Month: 4, Year: 2024}

	t.Run("AddEmits", func(t *testing.T) {
		svc, _, salaries, supervisors, sink := newWorkforceServiceWithMocks()
		supervisors.On("GetByID", mock.Anything, sup.ID).Return(sup, nil).Once()
		salaries.On("Create", mock.Anything, mock.AnythingOfType("*workforce.Salary")).Return(nil).Once()
		sink.On("Emit", mock.Anything, "Salary Paid", "Salary of 25000 paid to Ravi for 04/2024", notification.CategorySupervisor).Once()

		got, err := svc.AddSalary(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Month)
		sink.AssertExpectations(t)
	})

	t.Run("AddDuplicateIsConflict", func(t *testing.T) {
		svc, _, salaries, supervisors, sink := newWorkforceServiceWithMocks()
		supervisors.On("GetByID", mock.Anything, sup.ID).Return(sup, nil).Once()
		salaries.On("Create", mock.Anything, mock.Anything).Return(workforce.ErrDuplicateSalary{SupervisorID: sup.ID, Month: 4, Year: 2024}).Once()

		_, err := svc.AddSalary(context.Background(), in)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
		sink.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MarkUpserts", func(t *testing.T) {
		svc, _, salaries, supervisors, sink := newWorkforceServiceWithMocks()
		stored := &workforce.Salary{ID: uuid.New(), SupervisorID: sup.ID, Amount: decimal.NewFromInt(25000), Month: 4, Year: 2024}
		supervisors.On("GetByID", mock.Anything, sup.ID).Return(sup, nil).Once()
		salaries.On("Upsert", mock.Anything, mock.Anything).Return(stored, nil).Once()
		sink.On("Emit", mock.Anything, "Salary Paid", mock.Anything, notification.CategorySupervisor).Once()

		got, err := svc.MarkSalary(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
	})

	t.Run("MissingAmount", func(t *testing.T) {
		svc, _, _, _, _ := newWorkforceServiceWithMocks()
		bad := in
		bad.Amount = nil
		_, err := svc.AddSalary(context.Background(), bad)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument{Field: "amount"})
	})

	t.Run("History", func(t *testing.T) {
		svc, _, salaries, supervisors, _ := newWorkforceServiceWithMocks()
		supervisors.On("GetByID", mock.Anything, sup.ID).Return(sup, nil).Once()
		salaries.On("ListBySupervisor", mock.Anything, sup.ID).Return([]*workforce.Salary{
			{Amount: decimal.NewFromInt(25000), Month: 5, Year: 2024},
			{Amount: decimal.NewFromInt(24000), Month: 4, Year: 2024},
		}, nil).Once()

		h, err := svc.SalaryHistory(context.Background(), sup.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, h.TotalRecords)
		assert.Equal(t, "49000", h.TotalAmount.String())
	})

	t.Run("UpdateOntoOccupiedPeriod", func(t *testing.T) {
		svc, _, salaries, _, _ := newWorkforceServiceWithMocks()
		existing := &workforce.Salary{ID: uuid.New(), SupervisorID: sup.ID, Amount: decimal.NewFromInt(25000), Month: 4, Year: 2024}
		salaries.On("GetByID", mock.Anything, existing.ID).Return(existing, nil).Once()
		salaries.On("Update", mock.Anything, existing).Return(workforce.ErrDuplicateSalary{SupervisorID: sup.ID, Month: 5, Year: 2024}).Once()

		_, err := svc.UpdateSalary(context.Background(), existing.ID, workforce.SalaryPatch{Month: shared.Some(5)})
		assert.ErrorIs(t, err, workforce.ErrDuplicateSalary{})
	})
}

func TestInvoiceService(t *testing.T) {
	loc := &registry.Location{ID: uuid.New(), Name: "Shop"}

	newService := func() (InvoiceService, *MockInvoiceRepository, *MockLocationRepository, *MockSink) {
		invoices := new(MockInvoiceRepository)
		locations := new(MockLocationRepository)
		sink := new(MockSink)
		return NewInvoiceService(newTestLogger(), invoices, locations, sink), invoices, locations, sink
	}

	t.Run("CreateDefaultsDate", func(t *testing.T) {
		svc, invoices, locations, sink := newService()
		locations.On("GetByID", mock.Anything, loc.ID).Return(loc, nil).Once()
		invoices.On("Create", mock.Anything, mock.AnythingOfType("*invoice.Invoice")).Return(nil).Once()
		sink.On("Emit", mock.Anything, "Invoice Added", "Invoice Steel of 1200 added at Shop", notification.CategoryLocation).Once()

		inv, err := svc.Create(context.Background(), CreateInvoiceInput{Title: "Steel", Amount: decimalPtr("1200"), LocationID: loc.ID})
		require.NoError(t, err)
		assert.False(t, inv.InvoiceDate.IsZero())
		sink.AssertExpectations(t)
	})

	t.Run("CreateForUnknownLocation", func(t *testing.T) {
		svc, invoices, locations, _ := newService()
		locations.On("GetByID", mock.Anything, loc.ID).Return(nil, registry.ErrLocationNotFound{ID: loc.ID}).Once()

		_, err := svc.Create(context.Background(), CreateInvoiceInput{Title: "Steel", Amount: decimalPtr("1200"), LocationID: loc.ID})
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
		invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ListByLocation", func(t *testing.T) {
		svc, invoices, locations, _ := newService()
		locations.On("GetByID", mock.Anything, loc.ID).Return(loc, nil).Once()
		invoices.On("ListByLocation", mock.Anything, loc.ID).Return([]*invoice.Invoice{{ID: uuid.New()}}, nil).Once()

		list, err := svc.ListByLocation(context.Background(), loc.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		svc, invoices, _, _ := newService()
		id := uuid.New()
		invoices.On("Delete", mock.Anything, id).Return(invoice.ErrInvoiceNotFound{ID: id}).Once()

		assert.ErrorIs(t, svc.Delete(context.Background(), id), invoice.ErrInvoiceNotFound{ID: id})
	})
}

func TestNotificationService(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(newTestLogger(), repo)

	page := []*notification.Notification{{ID: "n-3"}, {ID: "n-2"}}
	repo.On("List", mock.Anything, 2, 2).Return(page, nil).Once()
	repo.On("Count", mock.Anything).Return(int64(5), nil).Once()

	items, total, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, page, items)
	assert.Equal(t, int64(5), total)

	_, _, err = svc.List(context.Background(), 0, 10)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument{Field: "page"})

	repo.On("MarkRead", mock.Anything, "n-9").Return(notification.ErrNotificationNotFound{ID: "n-9"}).Once()
	err = svc.MarkRead(context.Background(), "n-9")
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

	repo.AssertExpectations(t)
}
