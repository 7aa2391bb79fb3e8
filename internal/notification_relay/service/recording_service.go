package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/notification"
)

type RecordingServiceImpl struct {
	repo   notification.Repository
	logger *slog.Logger
}

func NewRecordingService(repo notification.Repository, logger *slog.Logger) RecordingService {
	return &RecordingServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Record validates the event and writes it as an unread notification. Kafka
// redelivers on failure, and a redelivered event maps to the same id.
func (s *RecordingServiceImpl) Record(ctx context.Context, event *notification.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	if err := event.Validate(); err != nil {
		logger.Warn("Rejected notification event", "event_id", event.EventID.String(), "error", err)
		return err
	}

	if err := s.repo.Record(ctx, notification.FromEvent(event)); err != nil {
		logger.Error("Failed to record notification", "event_id", event.EventID.String(), "error", err)
		return fmt.Errorf("failed to record notification %s: %w", event.EventID.String(), err)
	}

	logger.Info("Notification recorded",
		"event_id", event.EventID.String(),
		"category", string(event.Category),
	)
	return nil
}
