package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/config"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/platform/notify"
)

// FaultFinder lists transfer groups that are not a balanced pair
type FaultFinder interface {
	FindOrphanedTransfers(ctx context.Context) ([]ledger.IntegrityFault, error)
}

// ReconciliationSweeper periodically checks transfer groups and raises one
// admin notification per fault. A fault is announced again only after it was
// resolved and reappeared, or its reason changed.
type ReconciliationSweeper struct {
	finder   FaultFinder
	sink     notify.Sink
	logger   *slog.Logger
	interval time.Duration
	reported map[uuid.UUID]string
}

func NewReconciliationSweeper(
	cfg *config.ReconciliationConfig,
	finder FaultFinder,
	sink notify.Sink,
	logger *slog.Logger,
) *ReconciliationSweeper {
	return &ReconciliationSweeper{
		finder:   finder,
		sink:     sink,
		logger:   logger,
		interval: cfg.Interval,
		reported: make(map[uuid.UUID]string),
	}
}

// Start sweeps once, then on every tick until the context is canceled
func (s *ReconciliationSweeper) Start(ctx context.Context) {
	s.logger.Info("Starting reconciliation sweeper", "interval", s.interval.String())

	if err := s.sweep(ctx); err != nil {
		s.logger.Error("Reconciliation sweep failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reconciliation sweeper stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				s.logger.Error("Reconciliation sweep failed", "error", err)
			}
		}
	}
}

func (s *ReconciliationSweeper) sweep(ctx context.Context) error {
	faults, err := s.finder.FindOrphanedTransfers(ctx)
	if err != nil {
		return fmt.Errorf("failed to find orphaned transfers: %w", err)
	}

	current := make(map[uuid.UUID]string, len(faults))
	for _, f := range faults {
		current[f.TransferGroupID] = f.Reason
		if s.reported[f.TransferGroupID] == f.Reason {
			continue
		}

		s.logger.Warn("Transfer integrity fault",
			"transfer_group_id", f.TransferGroupID.String(),
			"leg_count", f.LegCount,
			"reason", f.Reason,
		)
		s.sink.Emit(ctx, "Transfer Integrity Fault",
			fmt.Sprintf("Transfer %s has %d leg(s): %s", f.TransferGroupID, f.LegCount, f.Reason),
			notification.CategoryAdmin,
		)
	}

	s.reported = current
	return nil
}
