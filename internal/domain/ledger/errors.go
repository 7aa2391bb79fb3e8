package ledger

import (
	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// ErrEntryNotFound indicates missing ledger entry
type ErrEntryNotFound struct {
	ID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.ID.String()
}

func (e ErrEntryNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// If the target ID is empty, consider it a match for any ErrEntryNotFound
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrItemNotFound indicates an item missing from its entry
type ErrItemNotFound struct {
	EntryID uuid.UUID
	ItemID  uuid.UUID
}

func (e ErrItemNotFound) Error() string {
	return "item " + e.ItemID.String() + " not found in entry " + e.EntryID.String()
}

func (e ErrItemNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrItemNotFound) Is(target error) bool {
	t, ok := target.(ErrItemNotFound)
	if !ok {
		return false
	}
	if t.ItemID == uuid.Nil {
		return true
	}
	return e.ItemID == t.ItemID
}

// ErrAttachmentNotFound indicates an entry without an attachment
type ErrAttachmentNotFound struct {
	EntryID uuid.UUID
}

func (e ErrAttachmentNotFound) Error() string {
	return "no attachment on entry: " + e.EntryID.String()
}

func (e ErrAttachmentNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrAttachmentNotFound) Is(target error) bool {
	t, ok := target.(ErrAttachmentNotFound)
	if !ok {
		return false
	}
	return t.EntryID == uuid.Nil || e.EntryID == t.EntryID
}

// ErrTransferNotFound indicates an unknown transfer group
type ErrTransferNotFound struct {
	GroupID uuid.UUID
}

func (e ErrTransferNotFound) Error() string {
	return "transfer not found: " + e.GroupID.String()
}

func (e ErrTransferNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrTransferNotFound) Is(target error) bool {
	t, ok := target.(ErrTransferNotFound)
	if !ok {
		return false
	}
	return t.GroupID == uuid.Nil || e.GroupID == t.GroupID
}

// ErrIntegrityFault indicates a transfer group that is not a balanced pair
type ErrIntegrityFault struct {
	GroupID uuid.UUID
	Reason  string
}

func (e ErrIntegrityFault) Error() string {
	return "integrity fault in transfer " + e.GroupID.String() + ": " + e.Reason
}

func (e ErrIntegrityFault) Kind() shared.ErrorKind { return shared.KindIntegrityFault }

func (e ErrIntegrityFault) Is(target error) bool {
	t, ok := target.(ErrIntegrityFault)
	if !ok {
		return false
	}
	return t.GroupID == uuid.Nil || e.GroupID == t.GroupID
}
