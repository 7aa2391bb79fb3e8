package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/blob"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/sitebooks-ledger/internal/ledger_api/middleware"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CorrelationID())
	return router
}

func performRequest(router http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// envelope is the decoded response body with data left generic
type envelope struct {
	Data          json.RawMessage `json:"data"`
	Error         *ErrorInfo      `json:"error,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Meta          *MetaInfo       `json:"meta,omitempty"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "Failed to unmarshal response: %s", rr.Body.String())
	return env
}

func decodeData(t *testing.T, env envelope) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) CreateLocation(ctx context.Context, in service.CreateLocationInput) (*registry.Location, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Location), args.Error(1)
}

func (m *MockRegistryService) GetLocation(ctx context.Context, id uuid.UUID) (*registry.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Location), args.Error(1)
}

func (m *MockRegistryService) ListLocations(ctx context.Context) ([]*registry.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.Location), args.Error(1)
}

func (m *MockRegistryService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRegistryService) CreateSupervisor(ctx context.Context, in service.CreateSupervisorInput) (*registry.Supervisor, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Supervisor), args.Error(1)
}

func (m *MockRegistryService) GetSupervisor(ctx context.Context, id uuid.UUID) (*registry.Supervisor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Supervisor), args.Error(1)
}

func (m *MockRegistryService) ListSupervisors(ctx context.Context) ([]*registry.Supervisor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.Supervisor), args.Error(1)
}

func (m *MockRegistryService) UpdateSupervisor(ctx context.Context, id uuid.UUID, patch registry.SupervisorPatch) (*registry.Supervisor, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Supervisor), args.Error(1)
}

func (m *MockRegistryService) DeleteSupervisor(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) Create(ctx context.Context, in service.CreateEntryInput) (*ledger.Entry, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryService) Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryService) Update(ctx context.Context, id uuid.UUID, patch ledger.EntryPatch) (*ledger.Entry, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntryService) ListAll(ctx context.Context) ([]*ledger.Entry, int, error) {
	args := m.Called(ctx)
	return entryList(args)
}

func (m *MockEntryService) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*ledger.Entry, int, error) {
	args := m.Called(ctx, locationID)
	return entryList(args)
}

func (m *MockEntryService) Search(ctx context.Context, keyword string) ([]*ledger.Entry, int, error) {
	args := m.Called(ctx, keyword)
	return entryList(args)
}

func entryList(args mock.Arguments) ([]*ledger.Entry, int, error) {
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*ledger.Entry), args.Int(1), args.Error(2)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, in service.TransferInput) (*ledger.TransferResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransferResult), args.Error(1)
}

func (m *MockTransferService) GetTransfer(ctx context.Context, groupID uuid.UUID) (*ledger.TransferResult, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransferResult), args.Error(1)
}

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Attach(ctx context.Context, entryID uuid.UUID, in service.AttachmentInput) (*ledger.Entry, error) {
	args := m.Called(ctx, entryID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockAttachmentService) GetAttachment(ctx context.Context, entryID uuid.UUID) (*service.AttachmentInfo, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttachmentInfo), args.Error(1)
}

func (m *MockAttachmentService) DownloadAttachment(ctx context.Context, entryID uuid.UUID) ([]byte, blob.Object, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, blob.Object{}, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(blob.Object), args.Error(2)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) AddItem(ctx context.Context, entryID uuid.UUID, in service.ItemInput) (*ledger.Entry, error) {
	args := m.Called(ctx, entryID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, entryID, itemID uuid.UUID, patch ledger.ItemPatch) (*ledger.Entry, error) {
	args := m.Called(ctx, entryID, itemID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockItemService) RemoveItem(ctx context.Context, entryID, itemID uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, entryID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockItemService) ListItems(ctx context.Context, entryID uuid.UUID) ([]ledger.Item, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Item), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GlobalSummary(ctx context.Context, dr ledger.DateRange) (ledger.Summary, error) {
	args := m.Called(ctx, dr)
	return args.Get(0).(ledger.Summary), args.Error(1)
}

func (m *MockDashboardService) SupervisorBalances(ctx context.Context, dr ledger.DateRange) ([]ledger.SupervisorBalance, error) {
	args := m.Called(ctx, dr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SupervisorBalance), args.Error(1)
}

func (m *MockDashboardService) RecentEntries(ctx context.Context, dr ledger.DateRange, limit shared.Optional[int]) ([]*ledger.Entry, error) {
	args := m.Called(ctx, dr, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockDashboardService) RecentInvoices(ctx context.Context, limit shared.Optional[int]) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

func (m *MockDashboardService) Locations(ctx context.Context) ([]*registry.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.Location), args.Error(1)
}

func (m *MockDashboardService) Home(ctx context.Context, dr ledger.DateRange) (*service.HomeDashboard, error) {
	args := m.Called(ctx, dr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HomeDashboard), args.Error(1)
}

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) FindOrphanedTransfers(ctx context.Context) ([]ledger.IntegrityFault, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.IntegrityFault), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, in service.CreateInvoiceInput) (*invoice.Invoice, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context) ([]*invoice.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockWorkforceService struct {
	mock.Mock
}

func (m *MockWorkforceService) MarkAttendance(ctx context.Context, supervisorID uuid.UUID, date time.Time, status string) (*workforce.Attendance, error) {
	args := m.Called(ctx, supervisorID, date, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Attendance), args.Error(1)
}

func (m *MockWorkforceService) AttendanceHistory(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Attendance, error) {
	args := m.Called(ctx, supervisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workforce.Attendance), args.Error(1)
}

func (m *MockWorkforceService) DeleteAttendance(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkforceService) AddSalary(ctx context.Context, in service.SalaryInput) (*workforce.Salary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Salary), args.Error(1)
}

func (m *MockWorkforceService) MarkSalary(ctx context.Context, in service.SalaryInput) (*workforce.Salary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Salary), args.Error(1)
}

func (m *MockWorkforceService) SalaryHistory(ctx context.Context, supervisorID uuid.UUID) (*workforce.SalaryHistory, error) {
	args := m.Called(ctx, supervisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.SalaryHistory), args.Error(1)
}

func (m *MockWorkforceService) GetSalary(ctx context.Context, id uuid.UUID) (*workforce.Salary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Salary), args.Error(1)
}

func (m *MockWorkforceService) UpdateSalary(ctx context.Context, id uuid.UUID, patch workforce.SalaryPatch) (*workforce.Salary, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Salary), args.Error(1)
}

func (m *MockWorkforceService) DeleteSalary(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, page, perPage int) ([]*notification.Notification, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
