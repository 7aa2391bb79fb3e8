package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sitebooks-ledger/internal/config"
	"github.com/sitebooks-ledger/internal/data/mongo"
	"github.com/sitebooks-ledger/internal/data/postgres"
	"github.com/sitebooks-ledger/internal/ledger_api"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
	"github.com/sitebooks-ledger/internal/logger"
	"github.com/sitebooks-ledger/internal/platform/notify"
	"github.com/sitebooks-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

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
	locationRepo := postgres.NewLocationRepository(log, postgresDB)
	supervisorRepo := postgres.NewSupervisorRepository(log, postgresDB)
	entryRepo := postgres.NewEntryRepository(log, postgresDB)
	itemRepo := postgres.NewItemRepository(log, postgresDB)
	summaryRepo := postgres.NewSummaryRepository(log, postgresDB)
	invoiceRepo := postgres.NewInvoiceRepository(log, postgresDB)
	attendanceRepo := postgres.NewAttendanceRepository(log, postgresDB)
	salaryRepo := postgres.NewSalaryRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	notificationRepo := mongo.NewNotificationRepository(log, mongoDB.Database())
	blobStore := mongo.NewGridFSStore(log, mongoDB.Database(), cfg.Blob.Bucket, cfg.MongoDB.Timeout)

	// Notifications are queued in the outbox and relayed by the notification relay
	sink := notify.NewOutboxSink(log, outboxRepo)

	// Initialize services
	services := ledger_api.Services{
		Registry:       service.NewRegistryService(log, locationRepo, supervisorRepo, sink),
		Entries:        service.NewEntryService(log, postgresDB, entryRepo, itemRepo, locationRepo, supervisorRepo, blobStore, sink),
		Items:          service.NewItemService(log, entryRepo, itemRepo, locationRepo),
		Attachments:    service.NewAttachmentService(log, entryRepo, itemRepo, blobStore),
		Transfers:      service.NewTransferService(log, postgresDB, entryRepo, locationRepo, supervisorRepo, sink),
		Dashboard:      service.NewDashboardService(log, summaryRepo, entryRepo, invoiceRepo, locationRepo),
		Reconciliation: service.NewReconciliationService(log, summaryRepo),
		Invoices:       service.NewInvoiceService(log, invoiceRepo, locationRepo, sink),
		Workforce:      service.NewWorkforceService(log, attendanceRepo, salaryRepo, supervisorRepo, sink),
		Notifications:  service.NewNotificationService(log, notificationRepo),
	}

	// Initialize REST server
	server := ledger_api.NewServer(appCtx, log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the stores go away
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
