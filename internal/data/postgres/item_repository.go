package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// ItemRepository implements the ledger.ItemRepository interface for PostgreSQL.
// Lines are stored as a JSONB array.
type ItemRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewItemRepository creates a new PostgreSQL item repository
func NewItemRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.ItemRepository {
	return &ItemRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *ItemRepository) WithTx(tx pgx.Tx) ledger.ItemRepository {
	return &ItemRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Add appends the item after the last existing position of its entry
func (r *ItemRepository) Add(ctx context.Context, item *ledger.Item) error {
	lines, err := json.Marshal(item.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode item lines: %w", err)
	}

	query := `
		INSERT INTO transaction_items (id, entry_id, item_name, location_id, lines, position, created_at)
		SELECT $1::uuid, $2::uuid, $3::text, $4::uuid, $5::jsonb, COALESCE(MAX(position) + 1, 0), $6::timestamptz
		FROM transaction_items
		WHERE entry_id = $2
		RETURNING position
	`

	err = r.querier.QueryRow(ctx, query,
		item.ID,
		item.EntryID,
		item.ItemName,
		item.LocationID,
		lines,
		item.CreatedAt,
	).Scan(&item.Position)
	if err != nil {
		if constraint, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
			if constraint == "transaction_items_entry_id_fkey" {
				return ledger.ErrEntryNotFound{ID: item.EntryID}
			}
			return registry.ErrLocationNotFound{ID: item.LocationID}
		}
		r.logger.Error("Failed to add item", "entry_id", item.EntryID.String(), "error", err)
		return fmt.Errorf("failed to add item: %w", persistence.ClassifyError(err))
	}

	return nil
}

// GetByID retrieves one item of an entry.
// Returns ErrItemNotFound if the item is not part of that entry.
func (r *ItemRepository) GetByID(ctx context.Context, entryID, itemID uuid.UUID) (*ledger.Item, error) {
	query := `
		SELECT id, entry_id, item_name, location_id, lines, position, created_at
		FROM transaction_items
		WHERE id = $1 AND entry_id = $2
	`

	item, err := scanItem(r.querier.QueryRow(ctx, query, itemID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrItemNotFound{EntryID: entryID, ItemID: itemID}
		}
		r.logger.Error("Failed to get item", "entry_id", entryID.String(), "item_id", itemID.String(), "error", err)
		return nil, fmt.Errorf("failed to get item: %w", persistence.ClassifyError(err))
	}

	return item, nil
}

// Update overwrites name, location and lines of an item
func (r *ItemRepository) Update(ctx context.Context, item *ledger.Item) error {
	lines, err := json.Marshal(item.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode item lines: %w", err)
	}

	query := `
		UPDATE transaction_items
		SET item_name = $1, location_id = $2, lines = $3
		WHERE id = $4 AND entry_id = $5
	`

	result, err := r.querier.Exec(ctx, query, item.ItemName, item.LocationID, lines, item.ID, item.EntryID)
	if err != nil {
		if _, ok := persistence.ConstraintViolation(err, persistence.PgForeignKeyViolation); ok {
			return registry.ErrLocationNotFound{ID: item.LocationID}
		}
		r.logger.Error("Failed to update item", "item_id", item.ID.String(), "error", err)
		return fmt.Errorf("failed to update item: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrItemNotFound{EntryID: item.EntryID, ItemID: item.ID}
	}

	return nil
}

// Remove deletes one item of an entry
func (r *ItemRepository) Remove(ctx context.Context, entryID, itemID uuid.UUID) error {
	query := `DELETE FROM transaction_items WHERE id = $1 AND entry_id = $2`

	result, err := r.querier.Exec(ctx, query, itemID, entryID)
	if err != nil {
		r.logger.Error("Failed to remove item", "item_id", itemID.String(), "error", err)
		return fmt.Errorf("failed to remove item: %w", persistence.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrItemNotFound{EntryID: entryID, ItemID: itemID}
	}

	return nil
}

// ListByEntry returns the items of an entry ordered by position
func (r *ItemRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]ledger.Item, error) {
	query := `
		SELECT id, entry_id, item_name, location_id, lines, position, created_at
		FROM transaction_items
		WHERE entry_id = $1
		ORDER BY position
	`

	rows, err := r.querier.Query(ctx, query, entryID)
	if err != nil {
		r.logger.Error("Failed to list items", "entry_id", entryID.String(), "error", err)
		return nil, fmt.Errorf("failed to list items: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	items := []ledger.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over items: %w", persistence.ClassifyError(err))
	}

	return items, nil
}

// ListByEntries loads the items of many entries in one query, keyed by entry id
func (r *ItemRepository) ListByEntries(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]ledger.Item, error) {
	byEntry := make(map[uuid.UUID][]ledger.Item, len(entryIDs))
	if len(entryIDs) == 0 {
		return byEntry, nil
	}

	query := `
		SELECT id, entry_id, item_name, location_id, lines, position, created_at
		FROM transaction_items
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, position
	`

	rows, err := r.querier.Query(ctx, query, entryIDs)
	if err != nil {
		r.logger.Error("Failed to list items for entries", "count", len(entryIDs), "error", err)
		return nil, fmt.Errorf("failed to list items for entries: %w", persistence.ClassifyError(err))
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		byEntry[item.EntryID] = append(byEntry[item.EntryID], *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over items: %w", persistence.ClassifyError(err))
	}

	return byEntry, nil
}

func scanItem(row pgx.Row) (*ledger.Item, error) {
	var (
		item  ledger.Item
		lines []byte
	)
	if err := row.Scan(&item.ID, &item.EntryID, &item.ItemName, &item.LocationID, &lines, &item.Position, &item.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &item.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode item lines: %w", err)
	}
	return &item, nil
}
