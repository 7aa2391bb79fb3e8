package service

import (
	"context"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// NotificationServiceImpl implements the NotificationService interface
type NotificationServiceImpl struct {
	repo   notification.Repository
	logger *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(logger *slog.Logger, repo notification.Repository) NotificationService {
	return &NotificationServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// List retrieves a page of notifications and the total count
func (s *NotificationServiceImpl) List(ctx context.Context, page, perPage int) ([]*notification.Notification, int64, error) {
	if page < 1 {
		return nil, 0, shared.InvalidArgument("page", "must be at least 1")
	}
	if perPage < 1 {
		return nil, 0, shared.InvalidArgument("per_page", "must be at least 1")
	}
	offset := (page - 1) * perPage

	items, err := s.repo.List(ctx, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list notifications", "page", page, "per_page", perPage, "error", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count notifications", "error", err)
		return nil, 0, err
	}

	return items, total, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return shared.InvalidArgument("id", "is required")
	}
	return s.repo.MarkRead(ctx, id)
}
