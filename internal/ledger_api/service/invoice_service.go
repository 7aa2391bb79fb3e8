package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/platform/notify"
)

// InvoiceServiceImpl implements the InvoiceService interface
type InvoiceServiceImpl struct {
	invoices  invoice.Repository
	locations registry.LocationRepository
	sink      notify.Sink
	logger    *slog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(logger *slog.Logger, invoices invoice.Repository, locations registry.LocationRepository, sink notify.Sink) InvoiceService {
	return &InvoiceServiceImpl{
		invoices:  invoices,
		locations: locations,
		sink:      sink,
		logger:    logger,
	}
}

func (s *InvoiceServiceImpl) Create(ctx context.Context, in CreateInvoiceInput) (*invoice.Invoice, error) {
	if in.Amount == nil {
		return nil, shared.InvalidArgument("amount", "is required")
	}

	inv, err := invoice.NewInvoice(in.Title, *in.Amount, in.InvoiceDate, in.LocationID)
	if err != nil {
		return nil, err
	}

	loc, err := s.locations.GetByID(ctx, inv.LocationID)
	if err != nil {
		return nil, err
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created", "invoice_id", inv.ID.String(), "location_id", inv.LocationID.String())
	s.sink.Emit(ctx, "Invoice Added",
		fmt.Sprintf("Invoice %s of %s added at %s", inv.Title, inv.Amount.String(), loc.Name),
		notification.CategoryLocation,
	)

	return inv, nil
}

func (s *InvoiceServiceImpl) List(ctx context.Context) ([]*invoice.Invoice, error) {
	return s.invoices.List(ctx)
}

func (s *InvoiceServiceImpl) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*invoice.Invoice, error) {
	if _, err := s.locations.GetByID(ctx, locationID); err != nil {
		return nil, err
	}
	return s.invoices.ListByLocation(ctx, locationID)
}

func (s *InvoiceServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Invoice deleted", "invoice_id", id.String())
	return nil
}
