package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// SummaryRepository computes ledger aggregates in PostgreSQL. Sums run over
// NUMERIC and are read back as text, so identical queries give identical results.
type SummaryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSummaryRepository creates a new PostgreSQL summary repository
func NewSummaryRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.SummaryRepository {
	return &SummaryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Totals sums credits, debits and transfer legs inside the range.
// Transfer legs count towards both their kind and the transfer total.
func (r *SummaryRepository) Totals(ctx context.Context, dr ledger.DateRange) (ledger.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'credit'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'debit'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE transfer_group_id IS NOT NULL), 0)::text
		FROM ledger_entries
		WHERE ($1::timestamptz IS NULL OR created_at BETWEEN $1 AND $2)
	`

	var credits, debits, transfers string
	if err := r.querier.QueryRow(ctx, query, dr.Args()...).Scan(&credits, &debits, &transfers); err != nil {
		r.logger.Error("Failed to compute ledger totals", "error", err)
		return ledger.Summary{}, fmt.Errorf("failed to compute ledger totals: %w", persistence.ClassifyError(err))
	}

	c, err := parseAmount(credits)
	if err != nil {
		return ledger.Summary{}, err
	}
	d, err := parseAmount(debits)
	if err != nil {
		return ledger.Summary{}, err
	}
	t, err := parseAmount(transfers)
	if err != nil {
		return ledger.Summary{}, err
	}

	return ledger.NewSummary(c, d, t), nil
}

// SupervisorBalances returns one row per registered supervisor in registry order,
// including supervisors without entries.
func (r *SummaryRepository) SupervisorBalances(ctx context.Context, dr ledger.DateRange) ([]ledger.SupervisorBalance, error) {
	query := `
		SELECT
			s.id, s.code, s.name,
			COALESCE(SUM(e.amount) FILTER (WHERE e.kind = 'credit'), 0)::text,
			COALESCE(SUM(e.amount) FILTER (WHERE e.kind = 'debit'), 0)::text
		FROM supervisors s
		LEFT JOIN ledger_entries e
			ON e.supervisor_id = s.id
			AND ($1::timestamptz IS NULL OR e.created_at BETWEEN $1 AND $2)
		GROUP BY s.id, s.code, s.name, s.created_at
		ORDER BY s.created_at ASC, s.id ASC
	`

	rows, err := r.querier.Query(ctx, query, dr.Args()...)
	if err != nil {
		r.logger.Error("Failed to compute supervisor balances", "error", err)
		return nil, fmt.Errorf("failed to compute supervisor balances: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	balances := []ledger.SupervisorBalance{}
	for rows.Next() {
		var (
			b               ledger.SupervisorBalance
			credits, debits string
		)
		if err := rows.Scan(&b.SupervisorID, &b.Code, &b.Name, &credits, &debits); err != nil {
			return nil, fmt.Errorf("failed to scan supervisor balance: %w", err)
		}
		c, err := parseAmount(credits)
		if err != nil {
			return nil, err
		}
		d, err := parseAmount(debits)
		if err != nil {
			return nil, err
		}
		balances = append(balances, ledger.NewSupervisorBalance(b.SupervisorID, b.Code, b.Name, c, d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over supervisor balances: %w", persistence.ClassifyError(err))
	}

	return balances, nil
}

// TransferGroupFaults lists transfer groups that are not one debit and one
// credit of equal amount whose peer locations point at each other.
func (r *SummaryRepository) TransferGroupFaults(ctx context.Context) ([]ledger.TransferGroupStats, error) {
	query := `
		WITH groups AS (
			SELECT
				transfer_group_id,
				COUNT(*)::int AS leg_count,
				(COUNT(*) FILTER (WHERE kind = 'debit'))::int AS debit_count,
				(COUNT(*) FILTER (WHERE kind = 'credit'))::int AS credit_count,
				MIN(amount) = MAX(amount) AS amounts_match,
				COALESCE(
					bool_and(transfer_peer_location_id IS NOT NULL)
					AND MAX(location_id::text) FILTER (WHERE kind = 'debit') = MAX(transfer_peer_location_id::text) FILTER (WHERE kind = 'credit')
					AND MAX(location_id::text) FILTER (WHERE kind = 'credit') = MAX(transfer_peer_location_id::text) FILTER (WHERE kind = 'debit'),
					false
				) AS peers_swapped,
				array_agg(id ORDER BY created_at, id) AS entry_ids,
				MIN(created_at) AS first_created_at
			FROM ledger_entries
			WHERE transfer_group_id IS NOT NULL
			GROUP BY transfer_group_id
		)
		SELECT transfer_group_id, leg_count, debit_count, credit_count, amounts_match, peers_swapped, entry_ids
		FROM groups
		WHERE leg_count <> 2
			OR debit_count <> 1
			OR NOT amounts_match
			OR NOT peers_swapped
		ORDER BY first_created_at
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to find transfer group faults", "error", err)
		return nil, fmt.Errorf("failed to find transfer group faults: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	stats := []ledger.TransferGroupStats{}
	for rows.Next() {
		var s ledger.TransferGroupStats
		if err := rows.Scan(&s.GroupID, &s.LegCount, &s.DebitCount, &s.CreditCount, &s.AmountsMatch, &s.PeersSwapped, &s.EntryIDs); err != nil {
			return nil, fmt.Errorf("failed to scan transfer group: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transfer groups: %w", persistence.ClassifyError(err))
	}

	return stats, nil
}
