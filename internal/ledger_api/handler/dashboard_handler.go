package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// DashboardHandler handles the read-only aggregate endpoints
type DashboardHandler struct {
	dashboardService      service.DashboardService
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	logger *slog.Logger,
	dashboardService service.DashboardService,
	reconciliationService service.ReconciliationService,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:      dashboardService,
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Summary returns credits, debits, transfers and balance for the range
func (h *DashboardHandler) Summary(c *gin.Context) {
	dr, err := dateRangeFromQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	summary, err := h.dashboardService.GlobalSummary(c.Request.Context(), dr)
	if err != nil {
		h.logger.Error("Failed to compute summary", "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, summary)
}

// SupervisorBalances returns per supervisor credits, debits and balance
func (h *DashboardHandler) SupervisorBalances(c *gin.Context) {
	dr, err := dateRangeFromQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	balances, err := h.dashboardService.SupervisorBalances(c.Request.Context(), dr)
	if err != nil {
		h.logger.Error("Failed to compute supervisor balances", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, balances, len(balances))
}

// RecentEntries returns the newest entries in the range
func (h *DashboardHandler) RecentEntries(c *gin.Context) {
	dr, err := dateRangeFromQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	limit, err := limitFromQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	entries, err := h.dashboardService.RecentEntries(c.Request.Context(), dr, limit)
	if err != nil {
		h.logger.Error("Failed to list recent entries", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, entries, len(entries))
}

// RecentInvoices returns the newest invoices
func (h *DashboardHandler) RecentInvoices(c *gin.Context) {
	limit, err := limitFromQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	invoices, err := h.dashboardService.RecentInvoices(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list recent invoices", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, invoices, len(invoices))
}

// Locations returns the location registry
func (h *DashboardHandler) Locations(c *gin.Context) {
	locs, err := h.dashboardService.Locations(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list locations", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, locs, len(locs))
}

// Home returns the composed landing page view
func (h *DashboardHandler) Home(c *gin.Context) {
	dr, err := dateRangeFromQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	home, err := h.dashboardService.Home(c.Request.Context(), dr)
	if err != nil {
		h.logger.Error("Failed to compose home dashboard", "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, home)
}

// OrphanedTransfers lists transfer groups that are not a proper leg pair
func (h *DashboardHandler) OrphanedTransfers(c *gin.Context) {
	faults, err := h.reconciliationService.FindOrphanedTransfers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to reconcile transfers", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, faults, len(faults))
}
