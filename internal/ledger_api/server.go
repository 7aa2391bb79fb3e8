package ledger_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/config"
	"github.com/sitebooks-ledger/internal/ledger_api/handler"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// Services bundles the application services served over HTTP
type Services struct {
	Registry       service.RegistryService
	Entries        service.EntryService
	Items          service.ItemService
	Attachments    service.AttachmentService
	Transfers      service.TransferService
	Dashboard      service.DashboardService
	Reconciliation service.ReconciliationService
	Invoices       service.InvoiceService
	Workforce      service.WorkforceService
	Notifications  service.NotificationService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services.
// Background middleware work stops when ctx is cancelled.
func NewServer(ctx context.Context, log *slog.Logger, cfg *config.Config, svc Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()
	httpRouter.MaxMultipartMemory = cfg.Blob.MaxUploadSize

	setupRouter(ctx, log, cfg, httpRouter, handlers{
		registry:     handler.NewRegistryHandler(log, svc.Registry),
		entry:        handler.NewEntryHandler(log, svc.Entries, svc.Transfers),
		item:         handler.NewItemHandler(log, svc.Items),
		attachment:   handler.NewAttachmentHandler(log, svc.Attachments, cfg.Blob.MaxUploadSize),
		transfer:     handler.NewTransferHandler(log, svc.Transfers),
		dashboard:    handler.NewDashboardHandler(log, svc.Dashboard, svc.Reconciliation),
		invoice:      handler.NewInvoiceHandler(log, svc.Invoices),
		workforce:    handler.NewWorkforceHandler(log, svc.Workforce),
		notification: handler.NewNotificationHandler(log, svc.Notifications),
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server. In-flight requests get until the
// ctx deadline to finish.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
