package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/registry"
)

// ItemServiceImpl implements the ItemService interface
type ItemServiceImpl struct {
	entries   ledger.EntryRepository
	items     ledger.ItemRepository
	locations registry.LocationRepository
	logger    *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(logger *slog.Logger, entries ledger.EntryRepository, items ledger.ItemRepository, locations registry.LocationRepository) ItemService {
	return &ItemServiceImpl{
		entries:   entries,
		items:     items,
		locations: locations,
		logger:    logger,
	}
}

// AddItem appends an item breakdown to the entry
func (s *ItemServiceImpl) AddItem(ctx context.Context, entryID uuid.UUID, in ItemInput) (*ledger.Entry, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	item, err := ledger.NewItem(entryID, in.ItemName, in.LocationID, in.Lines)
	if err != nil {
		return nil, err
	}
	if _, err := s.locations.GetByID(ctx, item.LocationID); err != nil {
		return nil, err
	}

	if err := s.items.Add(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("Item added", "entry_id", entryID.String(), "item_id", item.ID.String(), "position", item.Position)

	return loadEntry(ctx, s.entries, s.items, entryID)
}

// UpdateItem overwrites only the supplied fields of the item
func (s *ItemServiceImpl) UpdateItem(ctx context.Context, entryID, itemID uuid.UUID, patch ledger.ItemPatch) (*ledger.Entry, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, entryID, itemID)
	if err != nil {
		return nil, err
	}
	previousLocation := item.LocationID

	if err := item.Apply(patch); err != nil {
		return nil, err
	}
	if item.LocationID != previousLocation {
		if _, err := s.locations.GetByID(ctx, item.LocationID); err != nil {
			return nil, err
		}
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	return loadEntry(ctx, s.entries, s.items, entryID)
}

func (s *ItemServiceImpl) RemoveItem(ctx context.Context, entryID, itemID uuid.UUID) (*ledger.Entry, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	if err := s.items.Remove(ctx, entryID, itemID); err != nil {
		return nil, err
	}

	s.logger.Debug("Item removed", "entry_id", entryID.String(), "item_id", itemID.String())

	return loadEntry(ctx, s.entries, s.items, entryID)
}

func (s *ItemServiceImpl) ListItems(ctx context.Context, entryID uuid.UUID) ([]ledger.Item, error) {
	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	return s.items.ListByEntry(ctx, entryID)
}
