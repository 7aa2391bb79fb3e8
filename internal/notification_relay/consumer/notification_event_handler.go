package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/sitebooks-ledger/internal/notification_relay/service"
	"github.com/sitebooks-ledger/internal/platform/messaging/producers"
)

// NotificationEventHandler handles notification events consumed from Kafka
type NotificationEventHandler struct {
	recordingService service.RecordingService
	producer         producers.DeadLetterPublisher
	logger           *slog.Logger
}

// NewNotificationEventHandler creates a new handler. producer may be nil when
// no dead letter topic is configured.
func NewNotificationEventHandler(
	logger *slog.Logger,
	recordingService service.RecordingService,
	producer producers.DeadLetterPublisher,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		recordingService: recordingService,
		producer:         producer,
		logger:           logger,
	}
}

// HandleMessage records one event. Returning nil commits the offset.
func (h *NotificationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event notification.Event
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Error("Failed to unmarshal notification event from Kafka message",
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, key, value, "undecodable notification event: "+err.Error(), err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	if err := h.recordingService.Record(ctx, &event); err != nil {
		var invalid shared.ErrInvalidArgument
		if errors.As(err, &invalid) {
			return h.deadLetter(ctx, key, value, "invalid notification event: "+invalid.Error(), err)
		}
		logger.Error("Failed to record notification event",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return fmt.Errorf("recording notification event %s failed: %w", event.EventID.String(), err)
	}

	return nil
}

// deadLetter parks a message that can never succeed. When parking fails the
// original error is returned so Kafka redelivers it.
func (h *NotificationEventHandler) deadLetter(ctx context.Context, key, value []byte, reason string, cause error) error {
	if h.producer == nil {
		h.logger.Warn("Dropping unprocessable notification event, DLQ disabled", "message_key", string(key), "reason", reason)
		return nil
	}

	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to park notification event: %w", cause)
	}

	h.logger.Info("Published unprocessable notification event to DLQ", "message_key", string(key), "reason", reason)
	return nil
}
