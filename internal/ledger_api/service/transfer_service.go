package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/platform/notify"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	txRunner    persistence.TxRunner
	entries     ledger.EntryRepository
	locations   registry.LocationRepository
	supervisors registry.SupervisorRepository
	sink        notify.Sink
	logger      *slog.Logger
	now         func() time.Time
}

// NewTransferService creates a new transfer service
func NewTransferService(
	logger *slog.Logger,
	txRunner persistence.TxRunner,
	entries ledger.EntryRepository,
	locations registry.LocationRepository,
	supervisors registry.SupervisorRepository,
	sink notify.Sink,
) TransferService {
	return &TransferServiceImpl{
		txRunner:    txRunner,
		entries:     entries,
		locations:   locations,
		supervisors: supervisors,
		sink:        sink,
		logger:      logger,
		now:         shared.Now,
	}
}

// Transfer books a debit at the source and a credit at the destination in one
// database transaction. Source and destination may be the same location.
func (s *TransferServiceImpl) Transfer(ctx context.Context, in TransferInput) (*ledger.TransferResult, error) {
	if in.Amount == nil {
		return nil, shared.InvalidArgument("amount", "is required")
	}

	req := ledger.TransferRequest{
		Amount:                *in.Amount,
		SupervisorID:          in.SupervisorID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Description:           in.Description,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	source, err := s.locations.GetByID(ctx, req.SourceLocationID)
	if err != nil {
		return nil, err
	}
	destination, err := s.locations.GetByID(ctx, req.DestinationLocationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.supervisors.GetByID(ctx, req.SupervisorID); err != nil {
		return nil, err
	}

	result := ledger.BuildTransferLegs(req, source.Name, destination.Name, s.now())

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txEntries := s.entries.WithTx(tx)
		if err := txEntries.Create(ctx, result.Debit); err != nil {
			return fmt.Errorf("failed to create debit leg: %w", err)
		}
		if err := txEntries.Create(ctx, result.Credit); err != nil {
			return fmt.Errorf("failed to create credit leg: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to persist transfer",
			"transfer_group_id", result.GroupID.String(),
			"source_location_id", req.SourceLocationID.String(),
			"destination_location_id", req.DestinationLocationID.String(),
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Internal transfer completed",
		"transfer_group_id", result.GroupID.String(),
		"amount", req.Amount.String(),
		"source_location_id", req.SourceLocationID.String(),
		"destination_location_id", req.DestinationLocationID.String(),
	)
	s.sink.Emit(ctx, "Internal Transfer Completed",
		fmt.Sprintf("%s transferred from %s to %s", req.Amount.String(), source.Name, destination.Name),
		notification.CategoryTransaction,
	)

	return result, nil
}

func (s *TransferServiceImpl) GetTransfer(ctx context.Context, groupID uuid.UUID) (*ledger.TransferResult, error) {
	legs, err := s.entries.ListByTransferGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.PairTransferLegs(groupID, legs)
}
