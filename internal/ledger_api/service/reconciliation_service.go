package service

import (
	"context"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/ledger"
)

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	summaries ledger.SummaryRepository
	logger    *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(logger *slog.Logger, summaries ledger.SummaryRepository) ReconciliationService {
	return &ReconciliationServiceImpl{
		summaries: summaries,
		logger:    logger,
	}
}

// FindOrphanedTransfers returns one fault per transfer group that is not a
// single debit and credit of equal amount
func (s *ReconciliationServiceImpl) FindOrphanedTransfers(ctx context.Context) ([]ledger.IntegrityFault, error) {
	stats, err := s.summaries.TransferGroupFaults(ctx)
	if err != nil {
		return nil, err
	}

	faults := []ledger.IntegrityFault{}
	for _, st := range stats {
		if f := st.Check(); f != nil {
			faults = append(faults, *f)
		}
	}

	if len(faults) > 0 {
		s.logger.Warn("Transfer integrity faults found", "count", len(faults))
	}
	return faults, nil
}
