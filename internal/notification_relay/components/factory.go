package components

import (
	"log/slog"

	"github.com/sitebooks-ledger/internal/config"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/notification_relay/service"
)

// CreateRecordingService creates the inbox recording service behind a worker pool.
func CreateRecordingService(
	notificationRepo notification.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.RecordingService {
	baseService := service.NewRecordingService(notificationRepo, logger)

	workerPoolService, err := service.NewWorkerPoolRecordingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool recording service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
