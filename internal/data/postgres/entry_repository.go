package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// EntryRepository implements the ledger.EntryRepository interface for PostgreSQL
type EntryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewEntryRepository creates a new PostgreSQL ledger entry repository
func NewEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.EntryRepository {
	return &EntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction.
// Transfers insert both legs through the same tx.
func (r *EntryRepository) WithTx(tx pgx.Tx) ledger.EntryRepository {
	return &EntryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a ledger entry. Items are stored separately.
func (r *EntryRepository) Create(ctx context.Context, e *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (
			id, kind, amount, description, supervisor_id, location_id, status,
			attachment_ref, attachment_kind, transfer_peer_location_id, transfer_group_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.querier.Exec(ctx, query,
		e.ID,
		e.Kind,
		e.Amount.String(),
		e.Description,
		e.SupervisorID,
		e.LocationID,
		e.Status,
		e.AttachmentRef,
		e.AttachmentKind,
		e.TransferPeerLocationID,
		e.TransferGroupID,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		if refErr := missingReference(err, e); refErr != nil {
			return refErr
		}
		r.logger.Error("Failed to create ledger entry", "entry_id", e.ID.String(), "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", persistence.ClassifyError(err))
	}

	return nil
}

// GetByID retrieves an entry without its items.
// Returns ErrEntryNotFound if the entry doesn't exist.
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries e
		WHERE e.id = $1
	`

	e, err := scanEntry(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound{ID: id}
		}
		r.logger.Error("Failed to get ledger entry", "entry_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entry: %w", persistence.ClassifyError(err))
	}

	return e, nil
}

// Update overwrites the editable columns of an entry
func (r *EntryRepository) Update(ctx context.Context, e *ledger.Entry) error {
	query := `
		UPDATE ledger_entries
		SET kind = $1, amount = $2, description = $3, supervisor_id = $4,
			location_id = $5, status = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.querier.Exec(ctx, query,
		e.Kind,
		e.Amount.String(),
		e.Description,
		e.SupervisorID,
		e.LocationID,
		e.Status,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		if refErr := missingReference(err, e); refErr != nil {
			return refErr
		}
		r.logger.Error("Failed to update ledger entry", "entry_id", e.ID.String(), "error", err)
		return fmt.Errorf("failed to update ledger entry: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{ID: e.ID}
	}

	return nil
}

// UpdateAttachment replaces the attachment reference of an entry
func (r *EntryRepository) UpdateAttachment(ctx context.Context, id uuid.UUID, ref string, kind ledger.AttachmentKind) error {
	query := `
		UPDATE ledger_entries
		SET attachment_ref = $1, attachment_kind = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, ref, kind, id)
	if err != nil {
		r.logger.Error("Failed to update entry attachment", "entry_id", id.String(), "error", err)
		return fmt.Errorf("failed to update entry attachment: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{ID: id}
	}

	return nil
}

// Delete removes an entry, its items cascade
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM ledger_entries WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete ledger entry", "entry_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete ledger entry: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{ID: id}
	}

	return nil
}

// ListAll returns every entry, newest first
func (r *EntryRepository) ListAll(ctx context.Context) ([]*ledger.Entry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries e
		ORDER BY e.created_at DESC, e.id
	`
	return r.list(ctx, "list ledger entries", query)
}

// ListByLocation returns the entries booked at a location, newest first
func (r *EntryRepository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries e
		WHERE e.location_id = $1
		ORDER BY e.created_at DESC, e.id
	`
	return r.list(ctx, "list ledger entries by location", query, locationID)
}

// Search matches the keyword case-insensitively against description, kind and status
func (r *EntryRepository) Search(ctx context.Context, keyword string) ([]*ledger.Entry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries e
		WHERE e.description ILIKE $1 OR e.kind ILIKE $1 OR e.status ILIKE $1
		ORDER BY e.created_at DESC, e.id
	`
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"
	return r.list(ctx, "search ledger entries", query, pattern)
}

// ListRecent returns at most limit entries inside the range, newest first
func (r *EntryRepository) ListRecent(ctx context.Context, dr ledger.DateRange, limit int) ([]*ledger.Entry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries e
		WHERE ($1::timestamptz IS NULL OR e.created_at BETWEEN $1 AND $2)
		ORDER BY e.created_at DESC, e.id
		LIMIT $3
	`
	args := append(dr.Args(), limit)
	return r.list(ctx, "list recent ledger entries", query, args...)
}

// ListByTransferGroup returns the legs of one transfer
func (r *EntryRepository) ListByTransferGroup(ctx context.Context, groupID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT` + entryColumns + `
		FROM ledger_entries e
		WHERE e.transfer_group_id = $1
		ORDER BY e.kind DESC
	`
	return r.list(ctx, "list transfer legs", query, groupID)
}

func (r *EntryRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*ledger.Entry, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, persistence.ClassifyError(err))
	}

	entries, err := collectEntries(rows)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, persistence.ClassifyError(err)
	}
	return entries, nil
}

// missingReference maps foreign key violations on insert/update to registry not-found errors
func missingReference(err error, e *ledger.Entry) error {
	constraint, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation)
	if !ok {
		return nil
	}
	switch constraint {
	case "ledger_entries_supervisor_id_fkey":
		return registry.ErrSupervisorNotFound{ID: e.SupervisorID}
	case "ledger_entries_transfer_peer_location_id_fkey":
		if e.TransferPeerLocationID != nil {
			return registry.ErrLocationNotFound{ID: *e.TransferPeerLocationID}
		}
	}
	return registry.ErrLocationNotFound{ID: e.LocationID}
}
