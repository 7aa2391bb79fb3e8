package invoice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Invoice is a bill raised against a location
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceDate time.Time       `json:"invoice_date"`
	LocationID  uuid.UUID       `json:"location_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewInvoice validates an invoice. A nil date defaults to now.
func NewInvoice(title string, amount decimal.Decimal, invoiceDate *time.Time, locationID uuid.UUID) (*Invoice, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.InvalidArgument("title", "is required")
	}
	if err := shared.ValidateAmount("amount", amount); err != nil {
		return nil, err
	}
	if locationID == uuid.Nil {
		return nil, shared.InvalidArgument("location_id", "is required")
	}

	now := shared.Now()
	date := now
	if invoiceDate != nil {
		date = invoiceDate.UTC()
	}

	return &Invoice{
		ID:          uuid.New(),
		Title:       title,
		Amount:      amount,
		InvoiceDate: date,
		LocationID:  locationID,
		CreatedAt:   now,
	}, nil
}

// Repository manages invoice persistence. Lists are newest first.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	List(ctx context.Context) ([]*Invoice, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*Invoice, error)
	ListRecent(ctx context.Context, limit int) ([]*Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrInvoiceNotFound indicates missing invoice
type ErrInvoiceNotFound struct {
	ID uuid.UUID
}

func (e ErrInvoiceNotFound) Error() string {
	return "invoice not found: " + e.ID.String()
}

func (e ErrInvoiceNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrInvoiceNotFound) Is(target error) bool {
	t, ok := target.(ErrInvoiceNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}
