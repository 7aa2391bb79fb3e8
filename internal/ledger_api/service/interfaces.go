package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/blob"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/domain/workforce"
)

// CreateLocationInput carries the fields of a new location
type CreateLocationInput struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// CreateSupervisorInput carries the fields of a new supervisor
type CreateSupervisorInput struct {
	Code   string
	Name   string
	Mobile string
	Email  string
}

// RegistryService defines the operations on locations and supervisors
type RegistryService interface {
	CreateLocation(ctx context.Context, in CreateLocationInput) (*registry.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*registry.Location, error)
	ListLocations(ctx context.Context) ([]*registry.Location, error)
	// DeleteLocation returns ErrLocationInUse while entries, items or invoices reference it
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	// CreateSupervisor returns ErrDuplicateSupervisor on a code or email clash
	CreateSupervisor(ctx context.Context, in CreateSupervisorInput) (*registry.Supervisor, error)
	GetSupervisor(ctx context.Context, id uuid.UUID) (*registry.Supervisor, error)
	ListSupervisors(ctx context.Context) ([]*registry.Supervisor, error)
	UpdateSupervisor(ctx context.Context, id uuid.UUID, patch registry.SupervisorPatch) (*registry.Supervisor, error)
	DeleteSupervisor(ctx context.Context, id uuid.UUID) error
}

// CreateEntryInput carries a direct credit or debit. A nil amount means the
// caller did not supply one.
type CreateEntryInput struct {
	Kind         ledger.Kind
	Amount       *decimal.Decimal
	Description  string
	SupervisorID uuid.UUID
	LocationID   uuid.UUID
	Status       ledger.Status
}

// EntryService defines the operations of the transaction store
type EntryService interface {
	// Create validates references and persists a direct entry
	// Returns ErrLocationNotFound or ErrSupervisorNotFound for unknown references
	Create(ctx context.Context, in CreateEntryInput) (*ledger.Entry, error)

	// Get returns the entry with its items
	Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error)

	// Update merges the supplied fields into the entry
	Update(ctx context.Context, id uuid.UUID, patch ledger.EntryPatch) (*ledger.Entry, error)

	// Delete removes the entry and its attachment. Deleting a transfer leg
	// removes both legs.
	Delete(ctx context.Context, id uuid.UUID) error

	// Lists return entries newest first together with the total count
	ListAll(ctx context.Context) ([]*ledger.Entry, int, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*ledger.Entry, int, error)
	Search(ctx context.Context, keyword string) ([]*ledger.Entry, int, error)
}

// AttachmentInput is an uploaded file
type AttachmentInput struct {
	Content     []byte
	ContentType string
	Filename    string
}

// AttachmentInfo describes the attachment referenced by an entry
type AttachmentInfo struct {
	Ref  string                `json:"ref"`
	Kind ledger.AttachmentKind `json:"kind"`
}

// AttachmentService manages the single attachment of an entry
type AttachmentService interface {
	// Attach stores the file and replaces any previous attachment
	Attach(ctx context.Context, entryID uuid.UUID, in AttachmentInput) (*ledger.Entry, error)
	GetAttachment(ctx context.Context, entryID uuid.UUID) (*AttachmentInfo, error)
	DownloadAttachment(ctx context.Context, entryID uuid.UUID) ([]byte, blob.Object, error)
}

// ItemInput carries a new item breakdown
type ItemInput struct {
	ItemName   string
	LocationID uuid.UUID
	Lines      []ledger.ItemLine
}

// ItemService manages item breakdowns. Mutations return the parent entry.
type ItemService interface {
	AddItem(ctx context.Context, entryID uuid.UUID, in ItemInput) (*ledger.Entry, error)
	UpdateItem(ctx context.Context, entryID, itemID uuid.UUID, patch ledger.ItemPatch) (*ledger.Entry, error)
	RemoveItem(ctx context.Context, entryID, itemID uuid.UUID) (*ledger.Entry, error)
	ListItems(ctx context.Context, entryID uuid.UUID) ([]ledger.Item, error)
}

// TransferInput requests an internal transfer between two locations
type TransferInput struct {
	Amount                *decimal.Decimal
	SupervisorID          uuid.UUID
	SourceLocationID      uuid.UUID
	DestinationLocationID uuid.UUID
	Description           string
}

// TransferService runs the two-leg transfer protocol
type TransferService interface {
	// Transfer persists the debit and credit legs atomically
	Transfer(ctx context.Context, in TransferInput) (*ledger.TransferResult, error)

	// GetTransfer returns both legs of a group, or ErrIntegrityFault when they
	// are not a proper pair
	GetTransfer(ctx context.Context, groupID uuid.UUID) (*ledger.TransferResult, error)
}

// HomeDashboard is the composed landing page view
type HomeDashboard struct {
	Summary            ledger.Summary             `json:"summary"`
	SupervisorBalances []ledger.SupervisorBalance `json:"supervisor_balances"`
	RecentEntries      []*ledger.Entry            `json:"recent_entries"`
	RecentInvoices     []*invoice.Invoice         `json:"recent_invoices"`
	Locations          []*registry.Location       `json:"locations"`
}

// DashboardService computes read-only aggregates
type DashboardService interface {
	GlobalSummary(ctx context.Context, dr ledger.DateRange) (ledger.Summary, error)
	SupervisorBalances(ctx context.Context, dr ledger.DateRange) ([]ledger.SupervisorBalance, error)
	// RecentEntries defaults to 10 entries when limit is not set
	RecentEntries(ctx context.Context, dr ledger.DateRange, limit shared.Optional[int]) ([]*ledger.Entry, error)
	// RecentInvoices defaults to 5 invoices when limit is not set
	RecentInvoices(ctx context.Context, limit shared.Optional[int]) ([]*invoice.Invoice, error)
	Locations(ctx context.Context) ([]*registry.Location, error)
	Home(ctx context.Context, dr ledger.DateRange) (*HomeDashboard, error)
}

// ReconciliationService reports transfer groups that break the pair invariant
type ReconciliationService interface {
	FindOrphanedTransfers(ctx context.Context) ([]ledger.IntegrityFault, error)
}

// CreateInvoiceInput carries a new invoice. A nil date defaults to now.
type CreateInvoiceInput struct {
	Title       string
	Amount      *decimal.Decimal
	InvoiceDate *time.Time
	LocationID  uuid.UUID
}

// InvoiceService manages invoices
type InvoiceService interface {
	Create(ctx context.Context, in CreateInvoiceInput) (*invoice.Invoice, error)
	List(ctx context.Context) ([]*invoice.Invoice, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*invoice.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalaryInput carries a salary payment. A nil paid date defaults to now.
type SalaryInput struct {
	SupervisorID uuid.UUID
	Amount       *decimal.Decimal
	Month        int
	Year         int
	PaidDate     *time.Time
}

// WorkforceService manages supervisor attendance and salaries
type WorkforceService interface {
	// MarkAttendance sets the status for the supervisor's calendar day
	MarkAttendance(ctx context.Context, supervisorID uuid.UUID, date time.Time, status string) (*workforce.Attendance, error)
	AttendanceHistory(ctx context.Context, supervisorID uuid.UUID) ([]*workforce.Attendance, error)
	DeleteAttendance(ctx context.Context, id uuid.UUID) error

	// AddSalary fails with ErrDuplicateSalary when the period is already paid
	AddSalary(ctx context.Context, in SalaryInput) (*workforce.Salary, error)
	// MarkSalary inserts or replaces the period's record
	MarkSalary(ctx context.Context, in SalaryInput) (*workforce.Salary, error)
	SalaryHistory(ctx context.Context, supervisorID uuid.UUID) (*workforce.SalaryHistory, error)
	GetSalary(ctx context.Context, id uuid.UUID) (*workforce.Salary, error)
	UpdateSalary(ctx context.Context, id uuid.UUID, patch workforce.SalaryPatch) (*workforce.Salary, error)
	DeleteSalary(ctx context.Context, id uuid.UUID) error
}

// NotificationService exposes the admin inbox
type NotificationService interface {
	// List returns one page of notifications newest first and the total count
	List(ctx context.Context, page, perPage int) ([]*notification.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
}
