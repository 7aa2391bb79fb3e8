package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/outbox"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/platform/messaging/producers"
)

// EventPublisher publishes one outbox message to the notification stream
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// KafkaEventPublisher implements EventPublisher
type KafkaEventPublisher struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &KafkaEventPublisher{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent sends the event keyed by its id and marks the message PROCESSED.
// A payload that does not decode is marked FAILED_TO_PUBLISH straight away.
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.Event()
	if err != nil {
		p.logger.Error("Failed to unmarshal notification event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID.String(), "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	if err := p.producer.Publish(ctx, event.EventID.String(), event); err != nil {
		return fmt.Errorf("failed to publish notification event %s: %w", event.EventID.String(), err)
	}

	// At-least-once: a failure here republishes the event, and the consumer
	// records it under the same id.
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", event.EventID.String(), "error", err,
		)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", event.EventID.String(), message.ID, err)
	}

	logger.Debug("Outbox message published and marked as PROCESSED", "outbox_id", message.ID, "event_id", event.EventID.String())
	return nil
}
