// Package notify is the side channel mutations use to announce themselves.
// Emitting never fails the caller: events are written to the transactional
// outbox and relayed asynchronously.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/outbox"
)

const emitTimeout = 5 * time.Second

// Sink receives notification events
type Sink interface {
	Emit(ctx context.Context, title, message string, category notification.Category)
}

type correlationKey struct{}

// WithCorrelationID stores the request correlation id for emitted events
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, if any
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// OutboxSink writes events to the notification outbox
type OutboxSink struct {
	repo   outbox.Repository
	logger *slog.Logger
}

// NewOutboxSink creates a sink backed by the outbox repository
func NewOutboxSink(logger *slog.Logger, repo outbox.Repository) *OutboxSink {
	return &OutboxSink{
		repo:   repo,
		logger: logger,
	}
}

// Emit records the event. The write outlives a cancelled request context so a
// completed mutation is still announced.
func (s *OutboxSink) Emit(ctx context.Context, title, message string, category notification.Category) {
	event := notification.NewEvent(title, message, category)
	event.CorrelationID = CorrelationID(ctx)

	msg, err := outbox.NewMessage(event)
	if err != nil {
		s.logger.Error("Failed to encode notification event", "title", title, "error", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()

	if err := s.repo.Create(writeCtx, msg); err != nil {
		s.logger.Warn("Dropped notification event",
			"event_id", event.EventID.String(),
			"title", title,
			"error", err,
		)
		return
	}

	s.logger.Debug("Notification event queued", "event_id", event.EventID.String(), "category", string(category))
}
