package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// ItemHandler handles HTTP requests for the item breakdown of an entry
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(logger *slog.Logger, itemService service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// Add appends an item and responds with the parent entry
func (h *ItemHandler) Add(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var req CreateItemRequest
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

	entry, err := h.itemService.AddItem(c.Request.Context(), entryID, service.ItemInput{
		ItemName:   req.ItemName,
		LocationID: locationID,
		Lines:      req.Lines,
	})
	if err != nil {
		h.logger.Error("Failed to add item", "entry_id", entryID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, entry)
}

// Update merges the supplied fields into an item
func (h *ItemHandler) Update(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	itemID, err := parseID(c.Param("itemId"), "item_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var patch ledger.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.itemService.UpdateItem(c.Request.Context(), entryID, itemID, patch)
	if err != nil {
		h.logger.Error("Failed to update item", "entry_id", entryID.String(), "item_id", itemID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, entry)
}

// Remove deletes an item and responds with the parent entry
func (h *ItemHandler) Remove(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	itemID, err := parseID(c.Param("itemId"), "item_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	entry, err := h.itemService.RemoveItem(c.Request.Context(), entryID, itemID)
	if err != nil {
		h.logger.Error("Failed to remove item", "entry_id", entryID.String(), "item_id", itemID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, entry)
}

// List returns the items of an entry in insertion order
func (h *ItemHandler) List(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	items, err := h.itemService.ListItems(c.Request.Context(), entryID)
	if err != nil {
		h.logger.Error("Failed to list items", "entry_id", entryID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, items, len(items))
}
