package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/blob"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// AttachmentServiceImpl implements the AttachmentService interface
type AttachmentServiceImpl struct {
	entries ledger.EntryRepository
	items   ledger.ItemRepository
	blobs   blob.Store
	logger  *slog.Logger
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(logger *slog.Logger, entries ledger.EntryRepository, items ledger.ItemRepository, blobs blob.Store) AttachmentService {
	return &AttachmentServiceImpl{
		entries: entries,
		items:   items,
		blobs:   blobs,
		logger:  logger,
	}
}

// Attach stores the new blob, points the entry at it and then removes the
// previous blob. A failed ref update removes the new blob so the entry keeps
// its old, still present attachment. A failed removal of the old blob only
// leaves an orphan in the store.
func (s *AttachmentServiceImpl) Attach(ctx context.Context, entryID uuid.UUID, in AttachmentInput) (*ledger.Entry, error) {
	if len(in.Content) == 0 {
		return nil, shared.InvalidArgument("file", "is required")
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	previousRef := entry.AttachmentRef

	kind := ledger.ClassifyAttachment(in.ContentType)

	obj, err := s.blobs.Store(ctx, in.Content, in.ContentType, in.Filename)
	if err != nil {
		s.logger.Error("Failed to store attachment", "entry_id", entryID.String(), "error", err)
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	if err := s.entries.UpdateAttachment(ctx, entryID, obj.Ref, kind); err != nil {
		s.discard(ctx, entryID, obj.Ref)
		return nil, err
	}

	if previousRef != "" {
		if err := s.blobs.Delete(ctx, previousRef); err != nil {
			s.logger.Warn("Failed to delete previous attachment",
				"entry_id", entryID.String(),
				"attachment_ref", previousRef,
				"error", err,
			)
		}
	}

	s.logger.Info("Attachment stored",
		"entry_id", entryID.String(),
		"attachment_ref", obj.Ref,
		"attachment_kind", string(kind),
		"size", obj.Size,
	)

	return loadEntry(ctx, s.entries, s.items, entryID)
}

func (s *AttachmentServiceImpl) GetAttachment(ctx context.Context, entryID uuid.UUID) (*AttachmentInfo, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.HasAttachment() {
		return nil, ledger.ErrAttachmentNotFound{EntryID: entryID}
	}
	return &AttachmentInfo{Ref: entry.AttachmentRef, Kind: entry.AttachmentKind}, nil
}

func (s *AttachmentServiceImpl) DownloadAttachment(ctx context.Context, entryID uuid.UUID) ([]byte, blob.Object, error) {
	info, err := s.GetAttachment(ctx, entryID)
	if err != nil {
		return nil, blob.Object{}, err
	}
	return s.blobs.Fetch(ctx, info.Ref)
}

func (s *AttachmentServiceImpl) discard(ctx context.Context, entryID uuid.UUID, ref string) {
	if err := s.blobs.Delete(ctx, ref); err != nil {
		s.logger.Warn("Failed to clean up unreferenced attachment",
			"entry_id", entryID.String(),
			"attachment_ref", ref,
			"error", err,
		)
	}
}
