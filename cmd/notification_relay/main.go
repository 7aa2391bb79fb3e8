package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sitebooks-ledger/internal/config"
	"github.com/sitebooks-ledger/internal/data/mongo"
	"github.com/sitebooks-ledger/internal/data/postgres"
	ledgerservice "github.com/sitebooks-ledger/internal/ledger_api/service"
	"github.com/sitebooks-ledger/internal/logger"
	"github.com/sitebooks-ledger/internal/notification_relay/components"
	"github.com/sitebooks-ledger/internal/notification_relay/consumer"
	"github.com/sitebooks-ledger/internal/notification_relay/outbox_poller"
	"github.com/sitebooks-ledger/internal/notification_relay/service"
	"github.com/sitebooks-ledger/internal/platform/messaging/consumers"
	"github.com/sitebooks-ledger/internal/platform/messaging/producers"
	"github.com/sitebooks-ledger/internal/platform/notify"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("notification_relay")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Notification Relay",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	summaryRepo := postgres.NewSummaryRepository(log, postgresDB)
	notificationRepo := mongo.NewNotificationRepository(log, mongoDB.Database())

	// Initialize Kafka producers and consumer
	eventProducer, err := producers.NewNotificationEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize notification Kafka producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// A nil *DLQProducer must not reach the handler as a non-nil interface
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Consumer side: Kafka -> worker pool -> MongoDB inbox
	recordingService := components.CreateRecordingService(notificationRepo, log, cfg)
	eventHandler := consumer.NewNotificationEventHandler(log, recordingService, deadLetters)

	// Producer side: outbox -> Kafka
	publisher := outbox_poller.NewEventPublisher(outboxRepo, eventProducer, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, publisher, log)

	// Create error channel for service errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer
	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.NotificationTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.NotificationTopic, cfg.Kafka.ConsumerGroup, eventHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	// Start outbox poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	// Start reconciliation sweeper; faults are announced through the outbox like any other event
	if cfg.Reconciliation.Enabled {
		sweeper := components.NewReconciliationSweeper(
			&cfg.Reconciliation,
			ledgerservice.NewReconciliationService(log, summaryRepo),
			notify.NewOutboxSink(log, outboxRepo),
			log.With("component", "reconciliation"),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sweeper.Start(appCtx)
		}()
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Wait for the poller and sweeper to finish their current pass
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All background workers stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	var shutdownErr error

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}

	if wpService, ok := recordingService.(*service.WorkerPoolRecordingService); ok {
		wpService.Shutdown()
	}

	if err := eventProducer.Close(); err != nil {
		log.Error("Error closing notification Kafka producer", "error", err)
		shutdownErr = err
	}

	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serviceErr != nil {
		log.Error("Notification Relay shutdown with errors", "error", serviceErr)
	}
	if shutdownErr != nil {
		log.Error("Notification Relay shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Notification Relay shutdown completed successfully")
}
