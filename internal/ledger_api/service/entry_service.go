package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/blob"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/platform/notify"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

// EntryServiceImpl implements the EntryService interface
type EntryServiceImpl struct {
	txRunner    persistence.TxRunner
	entries     ledger.EntryRepository
	items       ledger.ItemRepository
	locations   registry.LocationRepository
	supervisors registry.SupervisorRepository
	blobs       blob.Store
	sink        notify.Sink
	logger      *slog.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(
	logger *slog.Logger,
	txRunner persistence.TxRunner,
	entries ledger.EntryRepository,
	items ledger.ItemRepository,
	locations registry.LocationRepository,
	supervisors registry.SupervisorRepository,
	blobs blob.Store,
	sink notify.Sink,
) EntryService {
	return &EntryServiceImpl{
		txRunner:    txRunner,
		entries:     entries,
		items:       items,
		locations:   locations,
		supervisors: supervisors,
		blobs:       blobs,
		sink:        sink,
		logger:      logger,
	}
}

// Create persists a direct credit or debit after checking its references
func (s *EntryServiceImpl) Create(ctx context.Context, in CreateEntryInput) (*ledger.Entry, error) {
	if strings.EqualFold(strings.TrimSpace(string(in.Kind)), ledger.RequestTypeInternalTransfer) {
		return nil, shared.InvalidArgument("kind", "internal transfers must be created through the transfer protocol")
	}
	if in.Amount == nil {
		return nil, shared.InvalidArgument("amount", "is required")
	}

	entry, err := ledger.NewEntry(in.Kind, *in.Amount, in.Description, in.SupervisorID, in.LocationID, in.Status)
	if err != nil {
		return nil, err
	}

	loc, err := s.locations.GetByID(ctx, entry.LocationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.supervisors.GetByID(ctx, entry.SupervisorID); err != nil {
		return nil, err
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create ledger entry",
			"location_id", entry.LocationID.String(),
			"supervisor_id", entry.SupervisorID.String(),
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Ledger entry created",
		"entry_id", entry.ID.String(),
		"kind", string(entry.Kind),
		"amount", entry.Amount.String(),
	)
	s.sink.Emit(ctx, "New transaction added",
		fmt.Sprintf("New %s entry of %s added at %s", entry.Kind, entry.Amount.String(), loc.Name),
		notification.CategoryTransaction,
	)

	return entry, nil
}

// Get returns the entry with its items
func (s *EntryServiceImpl) Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	return loadEntry(ctx, s.entries, s.items, id)
}

// Update applies the supplied fields. Changed references are validated again.
func (s *EntryServiceImpl) Update(ctx context.Context, id uuid.UUID, patch ledger.EntryPatch) (*ledger.Entry, error) {
	if patch.IsEmpty() {
		return nil, shared.InvalidArgument("body", "no fields to update")
	}

	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousLocation, previousSupervisor := entry.LocationID, entry.SupervisorID

	if err := entry.Apply(patch); err != nil {
		return nil, err
	}

	if entry.LocationID != previousLocation {
		if _, err := s.locations.GetByID(ctx, entry.LocationID); err != nil {
			return nil, err
		}
	}
	if entry.SupervisorID != previousSupervisor {
		if _, err := s.supervisors.GetByID(ctx, entry.SupervisorID); err != nil {
			return nil, err
		}
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update ledger entry", "entry_id", id.String(), "error", err)
		return nil, err
	}

	items, err := s.items.ListByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Items = items

	s.sink.Emit(ctx, "Transaction updated",
		fmt.Sprintf("%s entry of %s updated", entry.KindDetail(), entry.Amount.String()),
		notification.CategoryTransaction,
	)

	return entry, nil
}

// Delete removes an entry. Attachments go first and their failures are only
// logged. A transfer leg takes its peer leg with it.
func (s *EntryServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !entry.IsTransferLeg() {
		s.deleteBlob(ctx, entry)
		if err := s.entries.Delete(ctx, id); err != nil {
			return err
		}

		s.logger.Info("Ledger entry deleted", "entry_id", id.String())
		s.sink.Emit(ctx, "Transaction deleted",
			fmt.Sprintf("%s entry of %s removed", entry.Kind, entry.Amount.String()),
			notification.CategoryTransaction,
		)
		return nil
	}

	groupID := *entry.TransferGroupID
	legs, err := s.entries.ListByTransferGroup(ctx, groupID)
	if err != nil {
		return err
	}
	for _, leg := range legs {
		s.deleteBlob(ctx, leg)
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txEntries := s.entries.WithTx(tx)
		for _, leg := range legs {
			if err := txEntries.Delete(ctx, leg.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete transfer legs", "transfer_group_id", groupID.String(), "error", err)
		return err
	}

	s.logger.Info("Transfer deleted", "transfer_group_id", groupID.String(), "legs", len(legs))
	s.sink.Emit(ctx, "Transaction deleted",
		fmt.Sprintf("Internal transfer of %s removed", entry.Amount.String()),
		notification.CategoryTransaction,
	)

	return nil
}

func (s *EntryServiceImpl) ListAll(ctx context.Context) ([]*ledger.Entry, int, error) {
	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.withItems(ctx, entries)
}

func (s *EntryServiceImpl) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*ledger.Entry, int, error) {
	if _, err := s.locations.GetByID(ctx, locationID); err != nil {
		return nil, 0, err
	}

	entries, err := s.entries.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, 0, err
	}
	return s.withItems(ctx, entries)
}

// Search matches the keyword case-insensitively against description, kind and status
func (s *EntryServiceImpl) Search(ctx context.Context, keyword string) ([]*ledger.Entry, int, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, shared.InvalidArgument("keyword", "is required")
	}

	entries, err := s.entries.Search(ctx, keyword)
	if err != nil {
		return nil, 0, err
	}
	return s.withItems(ctx, entries)
}

func (s *EntryServiceImpl) withItems(ctx context.Context, entries []*ledger.Entry) ([]*ledger.Entry, int, error) {
	if err := attachItems(ctx, s.items, entries); err != nil {
		return nil, 0, err
	}
	return entries, len(entries), nil
}

func (s *EntryServiceImpl) deleteBlob(ctx context.Context, entry *ledger.Entry) {
	if !entry.HasAttachment() {
		return
	}
	if err := s.blobs.Delete(ctx, entry.AttachmentRef); err != nil {
		s.logger.Warn("Failed to delete attachment, continuing",
			"entry_id", entry.ID.String(),
			"attachment_ref", entry.AttachmentRef,
			"error", err,
		)
	}
}

// loadEntry fetches an entry together with its ordered items
func loadEntry(ctx context.Context, entries ledger.EntryRepository, items ledger.ItemRepository, id uuid.UUID) (*ledger.Entry, error) {
	entry, err := entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := items.ListByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Items = list

	return entry, nil
}

// attachItems fills the items of every entry with a single batched lookup
func attachItems(ctx context.Context, items ledger.ItemRepository, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	byEntry, err := items.ListByEntries(ctx, ids)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if list, ok := byEntry[e.ID]; ok {
			e.Items = list
		} else {
			e.Items = []ledger.Item{}
		}
	}
	return nil
}
