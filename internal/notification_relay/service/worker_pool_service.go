package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/sitebooks-ledger/internal/domain/notification"
)

// WorkerPoolRecordingService bounds concurrent inbox writes with an ants pool
type WorkerPoolRecordingService struct {
	baseService RecordingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolRecordingService(
	baseService RecordingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolRecordingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolRecordingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Record submits the event to the pool and waits for its result, so the
// consumer commits the Kafka offset only after the write finished.
func (s *WorkerPoolRecordingService) Record(ctx context.Context, event *notification.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Debug("Submitting notification event to worker pool", "event_id", event.EventID.String())

	resultChan := make(chan error, 1)
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.Record(ctx, &eventCopy)
	})
	if err != nil {
		logger.Error("Failed to submit notification event to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolRecordingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolRecordingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolRecordingService) Capacity() int {
	return s.pool.Cap()
}
