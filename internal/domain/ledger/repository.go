package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EntryRepository manages ledger entry persistence. Lists are ordered by
// created_at descending and do not load items.
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, entry *Entry) error
	UpdateAttachment(ctx context.Context, id uuid.UUID, ref string, kind AttachmentKind) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Entry, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*Entry, error)
	Search(ctx context.Context, keyword string) ([]*Entry, error)
	ListRecent(ctx context.Context, r DateRange, limit int) ([]*Entry, error)
	ListByTransferGroup(ctx context.Context, groupID uuid.UUID) ([]*Entry, error)
	WithTx(tx pgx.Tx) EntryRepository
}

// ItemRepository manages item breakdowns, ordered by position within an entry
type ItemRepository interface {
	Add(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, entryID, itemID uuid.UUID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Remove(ctx context.Context, entryID, itemID uuid.UUID) error
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]Item, error)
	ListByEntries(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]Item, error)
	WithTx(tx pgx.Tx) ItemRepository
}

// SummaryRepository computes read-only aggregates over ledger entries
type SummaryRepository interface {
	Totals(ctx context.Context, r DateRange) (Summary, error)
	SupervisorBalances(ctx context.Context, r DateRange) ([]SupervisorBalance, error)
	// TransferGroupFaults returns the stats of every group that is not a proper pair
	TransferGroupFaults(ctx context.Context) ([]TransferGroupStats, error)
}
