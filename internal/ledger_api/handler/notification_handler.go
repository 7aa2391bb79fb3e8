package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// NotificationHandler handles HTTP requests for the admin inbox
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(logger *slog.Logger, notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns a page of notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	items, total, err := h.notificationService.List(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list notifications", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, items, pagination.Page, pagination.PerPage, int(total))
}

// MarkRead flags one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to mark notification read", "notification_id", id, "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}
