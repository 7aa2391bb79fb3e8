package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/ledger"
)

// NUMERIC columns are selected as text and parsed here so sums stay exact.
func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", raw, err)
	}
	return d, nil
}

// escapeLike escapes LIKE wildcards so keywords match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

const entryColumns = `
	e.id, e.kind, e.amount::text, e.description, e.supervisor_id, e.location_id, e.status,
	e.attachment_ref, e.attachment_kind, e.transfer_peer_location_id, e.transfer_group_id,
	(e.transfer_group_id IS NOT NULL AND (
		(SELECT COUNT(*) FROM ledger_entries p WHERE p.transfer_group_id = e.transfer_group_id) <> 2
		OR NOT EXISTS (
			SELECT 1 FROM ledger_entries p
			WHERE p.transfer_group_id = e.transfer_group_id
				AND p.id <> e.id
				AND p.kind <> e.kind
				AND p.amount = e.amount
				AND p.location_id = e.transfer_peer_location_id
				AND p.transfer_peer_location_id = e.location_id
		)
	)) AS integrity_fault,
	e.created_at, e.updated_at`

// scanEntry reads one row selected with entryColumns
func scanEntry(row pgx.Row) (*ledger.Entry, error) {
	var (
		e      ledger.Entry
		amount string
	)
	if err := row.Scan(
		&e.ID,
		&e.Kind,
		&amount,
		&e.Description,
		&e.SupervisorID,
		&e.LocationID,
		&e.Status,
		&e.AttachmentRef,
		&e.AttachmentKind,
		&e.TransferPeerLocationID,
		&e.TransferGroupID,
		&e.IntegrityFault,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if e.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	e.Items = []ledger.Item{}
	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]*ledger.Entry, error) {
	defer rows.Close()

	entries := []*ledger.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ledger entries: %w", err)
	}
	return entries, nil
}
