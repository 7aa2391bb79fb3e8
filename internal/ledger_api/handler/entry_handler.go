package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// EntryHandler handles HTTP requests for ledger entries
type EntryHandler struct {
	entryService    service.EntryService
	transferService service.TransferService
	logger          *slog.Logger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(logger *slog.Logger, entryService service.EntryService, transferService service.TransferService) *EntryHandler {
	return &EntryHandler{
		entryService:    entryService,
		transferService: transferService,
		logger:          logger,
	}
}

// Create records a direct credit or debit. Kind internal_transfer runs the
// transfer protocol and responds with both legs.
func (h *EntryHandler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if strings.EqualFold(strings.TrimSpace(req.Kind), ledger.RequestTypeInternalTransfer) {
		h.transfer(c, TransferRequest{
			Amount:                req.Amount,
			SupervisorID:          req.SupervisorID,
			SourceLocationID:      req.SourceLocationID,
			DestinationLocationID: req.DestinationLocationID,
			Description:           req.Description,
		})
		return
	}

	supervisorID, err := parseOptionalID(req.SupervisorID, "supervisor_id")
	if err != nil {
		RespondError(c, err)
		return
	}
	locationID, err := parseOptionalID(req.LocationID, "location_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), service.CreateEntryInput{
		Kind:         ledger.Kind(req.Kind),
		Amount:       req.Amount,
		Description:  req.Description,
		SupervisorID: supervisorID,
		LocationID:   locationID,
		Status:       ledger.Status(req.Status),
	})
	if err != nil {
		h.logger.Error("Failed to create entry", "kind", req.Kind, "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, entry)
}

// transfer runs the transfer protocol for a request routed through Create
func (h *EntryHandler) transfer(c *gin.Context, req TransferRequest) {
	in, err := req.toInput()
	if err != nil {
		RespondError(c, err)
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("Failed to transfer", "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, result)
}

// GetByID returns an entry with its items
func (h *EntryHandler) GetByID(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	entry, err := h.entryService.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get entry", "entry_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, entry)
}

// Update merges the supplied fields into an entry
func (h *EntryHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var patch ledger.EntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.entryService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.logger.Error("Failed to update entry", "entry_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, entry)
}

// Delete removes an entry, or both legs of a transfer
func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete entry", "entry_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}

// List returns every entry, or the keyword matches when keyword is given
func (h *EntryHandler) List(c *gin.Context) {
	var (
		entries []*ledger.Entry
		total   int
		err     error
	)
	if keyword, ok := c.GetQuery("keyword"); ok {
		entries, total, err = h.entryService.Search(c.Request.Context(), keyword)
	} else {
		entries, total, err = h.entryService.ListAll(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list entries", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, entries, total)
}

// ListByLocation returns the entries recorded at a location
func (h *EntryHandler) ListByLocation(c *gin.Context) {
	locationID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	entries, total, err := h.entryService.ListByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.logger.Error("Failed to list entries by location", "location_id", locationID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, entries, total)
}
