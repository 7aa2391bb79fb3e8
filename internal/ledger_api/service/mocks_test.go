package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/blob"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type MockTxRunner struct {
	mock.Mock
}

// ExecuteTx runs fn with a nil transaction unless an error is configured
func (m *MockTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Emit(ctx context.Context, title, message string, category notification.Category) {
	m.Called(ctx, title, message, category)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, loc *registry.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Location), args.Error(1)
}

func (m *MockLocationRepository) List(ctx context.Context) ([]*registry.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.Location), args.Error(1)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepository) WithTx(tx pgx.Tx) registry.LocationRepository {
	return m
}

type MockSupervisorRepository struct {
	mock.Mock
}

func (m *MockSupervisorRepository) Create(ctx context.Context, sup *registry.Supervisor) error {
	args := m.Called(ctx, sup)
	return args.Error(0)
}

func (m *MockSupervisorRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Supervisor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Supervisor), args.Error(1)
}

func (m *MockSupervisorRepository) List(ctx context.Context) ([]*registry.Supervisor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.Supervisor), args.Error(1)
}

func (m *MockSupervisorRepository) Update(ctx context.Context, sup *registry.Supervisor) error {
	args := m.Called(ctx, sup)
	return args.Error(0)
}

func (m *MockSupervisorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupervisorRepository) WithTx(tx pgx.Tx) registry.SupervisorRepository {
	return m
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateAttachment(ctx context.Context, id uuid.UUID, ref string, kind ledger.AttachmentKind) error {
	args := m.Called(ctx, id, ref, kind)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryRepository) ListAll(ctx context.Context) ([]*ledger.Entry, error) {
	args := m.Called(ctx)
	return entriesOrNil(args)
}

func (m *MockEntryRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*ledger.Entry, error) {
	args := m.Called(ctx, locationID)
	return entriesOrNil(args)
}

func (m *MockEntryRepository) Search(ctx context.Context, keyword string) ([]*ledger.Entry, error) {
	args := m.Called(ctx, keyword)
	return entriesOrNil(args)
}

func (m *MockEntryRepository) ListRecent(ctx context.Context, r ledger.DateRange, limit int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, r, limit)
	return entriesOrNil(args)
}

func (m *MockEntryRepository) ListByTransferGroup(ctx context.Context, groupID uuid.UUID) ([]*ledger.Entry, error) {
	args := m.Called(ctx, groupID)
	return entriesOrNil(args)
}

func (m *MockEntryRepository) WithTx(tx pgx.Tx) ledger.EntryRepository {
	return m
}

func entriesOrNil(args mock.Arguments) ([]*ledger.Entry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Add(ctx context.Context, item *ledger.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, entryID, itemID uuid.UUID) (*ledger.Item, error) {
	args := m.Called(ctx, entryID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *ledger.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Remove(ctx context.Context, entryID, itemID uuid.UUID) error {
	args := m.Called(ctx, entryID, itemID)
	return args.Error(0)
}

func (m *MockItemRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]ledger.Item, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Item), args.Error(1)
}

func (m *MockItemRepository) ListByEntries(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]ledger.Item, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]ledger.Item), args.Error(1)
}

func (m *MockItemRepository) WithTx(tx pgx.Tx) ledger.ItemRepository {
	return m
}

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Totals(ctx context.Context, r ledger.DateRange) (ledger.Summary, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(ledger.Summary), args.Error(1)
}

func (m *MockSummaryRepository) SupervisorBalances(ctx context.Context, r ledger.DateRange) ([]ledger.SupervisorBalance, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SupervisorBalance), args.Error(1)
}

func (m *MockSummaryRepository) TransferGroupFaults(ctx context.Context) ([]ledger.TransferGroupStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.TransferGroupStats), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	args := m.Called(ctx)
	return invoicesOrNil(args)
}

func (m *MockInvoiceRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, locationID)
	return invoicesOrNil(args)
}

func (m *MockInvoiceRepository) ListRecent(ctx context.Context, limit int) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, limit)
	return invoicesOrNil(args)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return m
}

func invoicesOrNil(args mock.Arguments) ([]*invoice.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Upsert(ctx context.Context, a *workforce.Attendance) (*workforce.Attendance, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Attendance, error) {
	args := m.Called(ctx, supervisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workforce.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSalaryRepository struct {
	mock.Mock
}

func (m *MockSalaryRepository) Create(ctx context.Context, s *workforce.Salary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSalaryRepository) Upsert(ctx context.Context, s *workforce.Salary) (*workforce.Salary, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Salary), args.Error(1)
}

func (m *MockSalaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*workforce.Salary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Salary), args.Error(1)
}

func (m *MockSalaryRepository) ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Salary, error) {
	args := m.Called(ctx, supervisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workforce.Salary), args.Error(1)
}

func (m *MockSalaryRepository) Update(ctx context.Context, s *workforce.Salary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSalaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSalaryRepository) WithTx(tx pgx.Tx) workforce.SalaryRepository {
	return m
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Record(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, limit, offset int) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Store(ctx context.Context, content []byte, contentType, filename string) (blob.Object, error) {
	args := m.Called(ctx, content, contentType, filename)
	return args.Get(0).(blob.Object), args.Error(1)
}

func (m *MockBlobStore) Fetch(ctx context.Context, ref string) ([]byte, blob.Object, error) {
	args := m.Called(ctx, ref)
	var content []byte
	if args.Get(0) != nil {
		content = args.Get(0).([]byte)
	}
	return content, args.Get(1).(blob.Object), args.Error(2)
}

func (m *MockBlobStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
