package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/blob"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAttachmentServiceWithMocks() (AttachmentService, *MockEntryRepository, *MockItemRepository, *MockBlobStore) {
	entries := new(MockEntryRepository)
	items := new(MockItemRepository)
	blobs := new(MockBlobStore)
	return NewAttachmentService(newTestLogger(), entries, items, blobs), entries, items, blobs
}

func TestAttachmentService_Attach(t *testing.T) {
	pdf := AttachmentInput{Content: []byte("%PDF-1.7"), ContentType: "application/pdf", Filename: "bill.pdf"}

	t.Run("FirstAttachment", func(t *testing.T) {
		svc, entries, items, blobs := newAttachmentServiceWithMocks()
		entry := &ledger.Entry{ID: uuid.New(), AttachmentKind: ledger.AttachmentNone}
		stored := &ledger.Entry{ID: entry.ID, AttachmentRef: "new-ref", AttachmentKind: ledger.AttachmentPDF}

		entries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()
		blobs.On("Store", mock.Anything, pdf.Content, "application/pdf", "bill.pdf").Return(blob.Object{Ref: "new-ref", Size: 8}, nil).Once()
		entries.On("UpdateAttachment", mock.Anything, entry.ID, "new-ref", ledger.AttachmentPDF).Return(nil).Once()
		entries.On("GetByID", mock.Anything, entry.ID).Return(stored, nil).Once()
		items.On("ListByEntry", mock.Anything, entry.ID).Return([]ledger.Item{}, nil).Once()

		got, err := svc.Attach(context.Background(), entry.ID, pdf)
		require.NoError(t, err)
		assert.Equal(t, "new-ref", got.AttachmentRef)
		assert.Equal(t, ledger.AttachmentPDF, got.AttachmentKind)
		entries.AssertExpectations(t)
		blobs.AssertExpectations(t)
	})

	t.Run("ReplacesPreviousBlob", func(t *testing.T) {
		svc, entries, items, blobs := newAttachmentServiceWithMocks()
		entry := &ledger.Entry{ID: uuid.New(), AttachmentRef: "old-ref", AttachmentKind: ledger.AttachmentPDF}
		png := AttachmentInput{Content: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png", Filename: "r.png"}

		entries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Twice()
		blobs.On("Store", mock.Anything, png.Content, "image/png", "r.png").Return(blob.Object{Ref: "new-ref"}, nil).Once()
		blobs.On("Delete", mock.Anything, "old-ref").Return(nil).Once()
		entries.On("UpdateAttachment", mock.Anything, entry.ID, "new-ref", ledger.AttachmentImage).Return(nil).Once()
		items.On("ListByEntry", mock.Anything, entry.ID).Return([]ledger.Item{}, nil).Once()

		_, err := svc.Attach(context.Background(), entry.ID, png)
		require.NoError(t, err)
		blobs.AssertExpectations(t)
		entries.AssertExpectations(t)
	})

	t.Run("OldBlobDeleteFailureStillSwapsRef", func(t *testing.T) {
		svc, entries, items, blobs := newAttachmentServiceWithMocks()
		entry := &ledger.Entry{ID: uuid.New(), AttachmentRef: "old-ref", AttachmentKind: ledger.AttachmentPDF}

		entries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Twice()
		blobs.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(blob.Object{Ref: "new-ref"}, nil).Once()
		entries.On("UpdateAttachment", mock.Anything, entry.ID, "new-ref", ledger.AttachmentPDF).Return(nil).Once()
		blobs.On("Delete", mock.Anything, "old-ref").Return(errors.New("gridfs timeout")).Once()
		items.On("ListByEntry", mock.Anything, entry.ID).Return([]ledger.Item{}, nil).Once()

		_, err := svc.Attach(context.Background(), entry.ID, pdf)
		require.NoError(t, err)
		blobs.AssertNotCalled(t, "Delete", mock.Anything, "new-ref")
		blobs.AssertExpectations(t)
		entries.AssertExpectations(t)
	})

	t.Run("RefUpdateFailureRemovesNewBlob", func(t *testing.T) {
		svc, entries, _, blobs := newAttachmentServiceWithMocks()
		entry := &ledger.Entry{ID: uuid.New(), AttachmentRef: "old-ref", AttachmentKind: ledger.AttachmentPDF}

		entries.On("GetByID", mock.Anything, entry.ID).Return(entry, nil).Once()
		blobs.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(blob.Object{Ref: "new-ref"}, nil).Once()
		entries.On("UpdateAttachment", mock.Anything, entry.ID, "new-ref", ledger.AttachmentPDF).Return(ledger.ErrEntryNotFound{ID: entry.ID}).Once()
		blobs.On("Delete", mock.Anything, "new-ref").Return(nil).Once()

		_, err := svc.Attach(context.Background(), entry.ID, pdf)
		assert.ErrorIs(t, err, ledger.ErrEntryNotFound{ID: entry.ID})
		blobs.AssertNotCalled(t, "Delete", mock.Anything, "old-ref")
		blobs.AssertExpectations(t)
	})

	t.Run("EmptyContent", func(t *testing.T) {
		svc, entries, _, blobs := newAttachmentServiceWithMocks()
		_, err := svc.Attach(context.Background(), uuid.New(), AttachmentInput{ContentType: "image/png"})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument{Field: "file"})
		entries.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		blobs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownEntry", func(t *testing.T) {
		svc, entries, _, blobs := newAttachmentServiceWithMocks()
		id := uuid.New()
		entries.On("GetByID", mock.Anything, id).Return(nil, ledger.ErrEntryNotFound{ID: id}).Once()

		_, err := svc.Attach(context.Background(), id, pdf)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
		blobs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAttachmentService_GetAndDownload(t *testing.T) {
	svc, entries, _, blobs := newAttachmentServiceWithMocks()
	withFile := &ledger.Entry{ID: uuid.New(), AttachmentRef: "ref-1", AttachmentKind: ledger.AttachmentImage}
	withoutFile := &ledger.Entry{ID: uuid.New(), AttachmentKind: ledger.AttachmentNone}

	entries.On("GetByID", mock.Anything, withFile.ID).Return(withFile, nil)
	entries.On("GetByID", mock.Anything, withoutFile.ID).Return(withoutFile, nil)

	info, err := svc.GetAttachment(context.Background(), withFile.ID)
	require.NoError(t, err)
	assert.Equal(t, &AttachmentInfo{Ref: "ref-1", Kind: ledger.AttachmentImage}, info)

	_, err = svc.GetAttachment(context.Background(), withoutFile.ID)
	assert.ErrorIs(t, err, ledger.ErrAttachmentNotFound{EntryID: withoutFile.ID})

	blobs.On("Fetch", mock.Anything, "ref-1").
		Return([]byte("png-bytes"), blob.Object{Ref: "ref-1", ContentType: "image/png", Filename: "r.png"}, nil).Once()
	content, obj, err := svc.DownloadAttachment(context.Background(), withFile.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "r.png", obj.Filename)

	_, _, err = svc.DownloadAttachment(context.Background(), withoutFile.ID)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

	blobs.AssertExpectations(t)
}
