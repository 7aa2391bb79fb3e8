// Package blob defines the opaque attachment store used by ledger entries.
package blob

import (
	"context"

	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Object describes a stored blob
type Object struct {
	Ref         string `json:"ref"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
}

// Store keeps attachment content keyed by an opaque ref
type Store interface {
	Store(ctx context.Context, content []byte, contentType, filename string) (Object, error)
	Fetch(ctx context.Context, ref string) ([]byte, Object, error)
	// Delete is idempotent, a missing blob is not an error
	Delete(ctx context.Context, ref string) error
}

// ErrBlobNotFound indicates an unknown ref
type ErrBlobNotFound struct {
	Ref string
}

func (e ErrBlobNotFound) Error() string {
	return "blob not found: " + e.Ref
}

func (e ErrBlobNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

func (e ErrBlobNotFound) Is(target error) bool {
	t, ok := target.(ErrBlobNotFound)
	if !ok {
		return false
	}
	return t.Ref == "" || e.Ref == t.Ref
}
