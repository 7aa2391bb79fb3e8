package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// attachmentField is the multipart form field carrying the upload
const attachmentField = "file"

// AttachmentHandler handles HTTP requests for entry attachments
type AttachmentHandler struct {
	attachmentService service.AttachmentService
	maxUploadSize     int64
	logger            *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler. Uploads larger than
// maxUploadSize bytes are rejected.
func NewAttachmentHandler(logger *slog.Logger, attachmentService service.AttachmentService, maxUploadSize int64) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

// Upload stores a file against an entry and replaces any previous one
func (h *AttachmentHandler) Upload(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	header, err := c.FormFile(attachmentField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				fmt.Sprintf("Attachment exceeds %d bytes", h.maxUploadSize))
			return
		}
		h.logger.Error("Invalid attachment upload", "entry_id", entryID.String(), "error", err)
		RespondBadRequest(c, "A file is required in the '"+attachmentField+"' field")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "entry_id", entryID.String(), "error", err)
		RespondInternalError(c)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", "entry_id", entryID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}

	entry, err := h.attachmentService.Attach(c.Request.Context(), entryID, service.AttachmentInput{
		Content:     content,
		ContentType: contentType,
		Filename:    header.Filename,
	})
	if err != nil {
		h.logger.Error("Failed to attach file", "entry_id", entryID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, entry)
}

// Get returns the attachment reference and kind of an entry
func (h *AttachmentHandler) Get(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	info, err := h.attachmentService.GetAttachment(c.Request.Context(), entryID)
	if err != nil {
		h.logger.Error("Failed to get attachment", "entry_id", entryID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, info)
}

// Download streams the attachment content
func (h *AttachmentHandler) Download(c *gin.Context) {
	entryID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	content, obj, err := h.attachmentService.DownloadAttachment(c.Request.Context(), entryID)
	if err != nil {
		h.logger.Error("Failed to download attachment", "entry_id", entryID.String(), "error", err)
		RespondError(c, err)
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	if obj.Filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": obj.Filename}))
	}
	c.Data(http.StatusOK, contentType, content)
}
