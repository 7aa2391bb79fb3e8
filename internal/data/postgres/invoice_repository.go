package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) invoice.Repository {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *InvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (id, title, amount, invoice_date, location_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		inv.ID,
		inv.Title,
		inv.Amount.String(),
		inv.InvoiceDate,
		inv.LocationID,
		inv.CreatedAt,
	)
	if err != nil {
		if _, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
			return registry.ErrLocationNotFound{ID: inv.LocationID}
		}
		r.logger.Error("Failed to create invoice", "invoice_id", inv.ID.String(), "error", err)
		return fmt.Errorf("failed to create invoice: %w", persistence.ClassifyError(err))
	}

	return nil
}

// List returns every invoice, newest first
func (r *InvoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	query := `
		SELECT id, title, amount::text, invoice_date, location_id, created_at
		FROM invoices
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, "list invoices", query)
}

// ListByLocation returns the invoices of one location, newest first
func (r *InvoiceRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*invoice.Invoice, error) {
	query := `
		SELECT id, title, amount::text, invoice_date, location_id, created_at
		FROM invoices
		WHERE location_id = $1
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, "list invoices by location", query, locationID)
}

// ListRecent returns at most limit invoices, newest first
func (r *InvoiceRepository) ListRecent(ctx context.Context, limit int) ([]*invoice.Invoice, error) {
	query := `
		SELECT id, title, amount::text, invoice_date, location_id, created_at
		FROM invoices
		ORDER BY created_at DESC, id
		LIMIT $1
	`
	return r.list(ctx, "list recent invoices", query, limit)
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", "invoice_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete invoice: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound{ID: id}
	}

	return nil
}

func (r *InvoiceRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*invoice.Invoice, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, persistence.ClassifyError(err))
	}
	defer rows.Close()

	invoices := []*invoice.Invoice{}
	for rows.Next() {
		var (
			inv    invoice.Invoice
			amount string
		)
		if err := rows.Scan(&inv.ID, &inv.Title, &amount, &inv.InvoiceDate, &inv.LocationID, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if inv.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over invoices: %w", persistence.ClassifyError(err))
	}

	return invoices, nil
}
