package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// Create records an invoice against a location
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	locationID, err := parseOptionalID(req.LocationID, "location_id")
	if err != nil {
		RespondError(c, err)
		return
	}
	invoiceDate, err := parseOptionalTime(req.InvoiceDate, "invoice_date")
	if err != nil {
		RespondError(c, err)
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), service.CreateInvoiceInput{
		Title:       req.Title,
		Amount:      req.Amount,
		InvoiceDate: invoiceDate,
		LocationID:  locationID,
	})
	if err != nil {
		h.logger.Error("Failed to create invoice", "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// List returns all invoices, or those of one location when location_id is given
func (h *InvoiceHandler) List(c *gin.Context) {
	var (
		invoices []*invoice.Invoice
		err      error
	)
	if raw, ok := c.GetQuery("location_id"); ok {
		locationID, parseErr := parseID(raw, "location_id")
		if parseErr != nil {
			RespondError(c, parseErr)
			return
		}
		invoices, err = h.invoiceService.ListByLocation(c.Request.Context(), locationID)
	} else {
		invoices, err = h.invoiceService.List(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list invoices", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, invoices, len(invoices))
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete invoice", "invoice_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}
