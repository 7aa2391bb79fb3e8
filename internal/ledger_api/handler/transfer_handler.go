package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// TransferHandler handles HTTP requests for internal transfers
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

func (r TransferRequest) toInput() (service.TransferInput, error) {
	supervisorID, err := parseOptionalID(r.SupervisorID, "supervisor_id")
	if err != nil {
		return service.TransferInput{}, err
	}
	sourceID, err := parseOptionalID(r.SourceLocationID, "source_location_id")
	if err != nil {
		return service.TransferInput{}, err
	}
	destinationID, err := parseOptionalID(r.DestinationLocationID, "destination_location_id")
	if err != nil {
		return service.TransferInput{}, err
	}
	return service.TransferInput{
		Amount:                r.Amount,
		SupervisorID:          supervisorID,
		SourceLocationID:      sourceID,
		DestinationLocationID: destinationID,
		Description:           r.Description,
	}, nil
}

// Create moves an amount between two locations
func (h *TransferHandler) Create(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		RespondError(c, err)
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("Failed to transfer",
			"source_location_id", req.SourceLocationID,
			"destination_location_id", req.DestinationLocationID,
			"error", err,
		)
		RespondError(c, err)
		return
	}

	RespondCreated(c, result)
}

// GetByGroupID returns both legs of a transfer
func (h *TransferHandler) GetByGroupID(c *gin.Context) {
	groupID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	result, err := h.transferService.GetTransfer(c.Request.Context(), groupID)
	if err != nil {
		h.logger.Error("Failed to get transfer", "transfer_group_id", groupID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, result)
}
