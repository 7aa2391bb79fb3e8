package ledger_api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/config"
	"github.com/sitebooks-ledger/internal/ledger_api/handler"
	"github.com/sitebooks-ledger/internal/ledger_api/middleware"
)

// handlers groups every HTTP handler mounted by the router
type handlers struct {
	registry     *handler.RegistryHandler
	entry        *handler.EntryHandler
	item         *handler.ItemHandler
	attachment   *handler.AttachmentHandler
	transfer     *handler.TransferHandler
	dashboard    *handler.DashboardHandler
	invoice      *handler.InvoiceHandler
	workforce    *handler.WorkforceHandler
	notification *handler.NotificationHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(ctx context.Context, logger *slog.Logger, cfg *config.Config, r *gin.Engine, h handlers) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(ctx, cfg.RateLimit).Middleware())
	}

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		locations := v1.Group("/locations")
		{
			locations.POST("", h.registry.CreateLocation)
			locations.GET("", h.registry.ListLocations)
			locations.GET("/:id", h.registry.GetLocation)
			locations.DELETE("/:id", h.registry.DeleteLocation)
			locations.GET("/:id/entries", h.entry.ListByLocation)
		}

		supervisors := v1.Group("/supervisors")
		{
			supervisors.POST("", h.registry.CreateSupervisor)
			supervisors.GET("", h.registry.ListSupervisors)
			supervisors.GET("/:id", h.registry.GetSupervisor)
			supervisors.PATCH("/:id", h.registry.UpdateSupervisor)
			supervisors.DELETE("/:id", h.registry.DeleteSupervisor)
			supervisors.POST("/:id/attendance", h.workforce.MarkAttendance)
			supervisors.GET("/:id/attendance", h.workforce.AttendanceHistory)
			supervisors.GET("/:id/salaries", h.workforce.SalaryHistory)
		}

		// Ledger entries, their items and attachment
		entries := v1.Group("/entries")
		{
			entries.POST("", h.entry.Create)
			entries.GET("", h.entry.List)
			entries.GET("/:id", h.entry.GetByID)
			entries.PATCH("/:id", h.entry.Update)
			entries.DELETE("/:id", h.entry.Delete)

			entries.POST("/:id/items", h.item.Add)
			entries.GET("/:id/items", h.item.List)
			entries.PATCH("/:id/items/:itemId", h.item.Update)
			entries.DELETE("/:id/items/:itemId", h.item.Remove)

			entries.POST("/:id/attachment", h.attachment.Upload)
			entries.GET("/:id/attachment", h.attachment.Get)
			entries.GET("/:id/attachment/download", h.attachment.Download)
		}

		transfers := v1.Group("/transfers")
		{
			transfers.POST("", h.transfer.Create)
			transfers.GET("/:id", h.transfer.GetByGroupID)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("", h.dashboard.Home)
			dashboard.GET("/summary", h.dashboard.Summary)
			dashboard.GET("/supervisor-balances", h.dashboard.SupervisorBalances)
			dashboard.GET("/recent-entries", h.dashboard.RecentEntries)
			dashboard.GET("/recent-invoices", h.dashboard.RecentInvoices)
			dashboard.GET("/locations", h.dashboard.Locations)
		}

		v1.GET("/reconciliation/transfers", h.dashboard.OrphanedTransfers)

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", h.invoice.Create)
			invoices.GET("", h.invoice.List)
			invoices.DELETE("/:id", h.invoice.Delete)
		}

		v1.DELETE("/attendance/:id", h.workforce.DeleteAttendance)

		salaries := v1.Group("/salaries")
		{
			salaries.POST("", h.workforce.AddSalary)
			salaries.PUT("", h.workforce.MarkSalary)
			salaries.GET("/:id", h.workforce.GetSalary)
			salaries.PATCH("/:id", h.workforce.UpdateSalary)
			salaries.DELETE("/:id", h.workforce.DeleteSalary)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.notification.List)
			notifications.PATCH("/:id/read", h.notification.MarkRead)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
