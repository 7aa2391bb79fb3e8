package service

import (
	"context"

	"github.com/sitebooks-ledger/internal/domain/notification"
)

// RecordingService stores relayed notification events in the admin inbox.
type RecordingService interface {
	Record(ctx context.Context, event *notification.Event) error
}
