package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/platform/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemColumns = []string{"id", "entry_id", "item_name", "location_id", "lines", "position", "created_at"}

const sampleLines = `[{"qty":"2","rate":"100","gst_rate":"18"}]`

func TestItemRepository_Add(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ItemRepository{querier: mock, logger: newTestLogger()}
	item, err := ledger.NewItem(uuid.New(), "Sand", uuid.New(), []ledger.ItemLine{
		{Qty: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100), GSTRate: decimal.NewFromInt(18)},
	})
	require.NoError(t, err)

	t.Run("appends after last position", func(t *testing.T) {
		mock.ExpectQuery(q("COALESCE(MAX(position) + 1, 0)")).
			WithArgs(item.ID, item.EntryID, item.ItemName, item.LocationID, pgxmock.AnyArg(), item.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"position"}).AddRow(3))

		require.NoError(t, repo.Add(ctx, item))
		assert.Equal(t, 3, item.Position)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("entry removed meanwhile", func(t *testing.T) {
		mock.ExpectQuery(q("INSERT INTO transaction_items")).
			WithArgs(item.ID, item.EntryID, item.ItemName, item.LocationID, pgxmock.AnyArg(), item.CreatedAt).
			WillReturnError(pgError(persistence.PgForeignKeyViolation, "transaction_items_entry_id_fkey"))

		err := repo.Add(ctx, item)
		assert.ErrorIs(t, err, ledger.ErrEntryNotFound{ID: item.EntryID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown location", func(t *testing.T) {
		mock.ExpectQuery(q("INSERT INTO transaction_items")).
			WithArgs(item.ID, item.EntryID, item.ItemName, item.LocationID, pgxmock.AnyArg(), item.CreatedAt).
			WillReturnError(pgError(persistence.PgForeignKeyViolation, "transaction_items_location_id_fkey"))

		err := repo.Add(ctx, item)
		assert.ErrorIs(t, err, registry.ErrLocationNotFound{ID: item.LocationID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ItemRepository{querier: mock, logger: newTestLogger()}
	entryID, itemID, locID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	t.Run("decodes lines", func(t *testing.T) {
		rows := pgxmock.NewRows(itemColumns).AddRow(itemID, entryID, "Sand", locID, []byte(sampleLines), 0, now)
		mock.ExpectQuery(q("WHERE id = $1 AND entry_id = $2")).WithArgs(itemID, entryID).WillReturnRows(rows)

		item, err := repo.GetByID(ctx, entryID, itemID)
		require.NoError(t, err)
		require.Len(t, item.Lines, 1)
		assert.True(t, decimal.RequireFromString("236").Equal(item.Total()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("belongs to another entry", func(t *testing.T) {
		mock.ExpectQuery(q("FROM transaction_items")).WithArgs(itemID, entryID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, entryID, itemID)
		assert.ErrorIs(t, err, ledger.ErrItemNotFound{EntryID: entryID, ItemID: itemID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemRepository_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ItemRepository{querier: mock, logger: newTestLogger()}
	item := &ledger.Item{ID: uuid.New(), EntryID: uuid.New(), ItemName: "Steel", LocationID: uuid.New(), Lines: []ledger.ItemLine{}}

	t.Run("update", func(t *testing.T) {
		mock.ExpectExec(q("UPDATE transaction_items")).
			WithArgs(item.ItemName, item.LocationID, []byte("[]"), item.ID, item.EntryID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Update(ctx, item))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing", func(t *testing.T) {
		mock.ExpectExec(q("UPDATE transaction_items")).
			WithArgs(item.ItemName, item.LocationID, []byte("[]"), item.ID, item.EntryID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.Update(ctx, item), ledger.ErrItemNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove", func(t *testing.T) {
		mock.ExpectExec(q("DELETE FROM transaction_items")).WithArgs(item.ID, item.EntryID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Remove(ctx, item.EntryID, item.ID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove missing", func(t *testing.T) {
		mock.ExpectExec(q("DELETE FROM transaction_items")).WithArgs(item.ID, item.EntryID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Remove(ctx, item.EntryID, item.ID), ledger.ErrItemNotFound{EntryID: item.EntryID, ItemID: item.ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemRepository_ListByEntries(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ItemRepository{querier: mock, logger: newTestLogger()}
	a, b := uuid.New(), uuid.New()
	now := time.Now().UTC()

	t.Run("no entries skips the query", func(t *testing.T) {
		byEntry, err := repo.ListByEntries(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, byEntry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("groups by entry in position order", func(t *testing.T) {
		rows := pgxmock.NewRows(itemColumns).
			AddRow(uuid.New(), a, "first", uuid.New(), []byte(sampleLines), 0, now).
			AddRow(uuid.New(), a, "second", uuid.New(), []byte("[]"), 1, now).
			AddRow(uuid.New(), b, "only", uuid.New(), []byte("[]"), 0, now)
		mock.ExpectQuery(q("WHERE entry_id = ANY($1)")).WithArgs([]uuid.UUID{a, b}).WillReturnRows(rows)

		byEntry, err := repo.ListByEntries(ctx, []uuid.UUID{a, b})
		require.NoError(t, err)
		require.Len(t, byEntry[a], 2)
		assert.Equal(t, "first", byEntry[a][0].ItemName)
		assert.Equal(t, "second", byEntry[a][1].ItemName)
		assert.Len(t, byEntry[b], 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListByEntry", func(t *testing.T) {
		mock.ExpectQuery(q("ORDER BY position")).WithArgs(a).WillReturnRows(pgxmock.NewRows(itemColumns))

		items, err := repo.ListByEntry(ctx, a)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
