package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// RegistryHandler handles HTTP requests for locations and supervisors
type RegistryHandler struct {
	registryService service.RegistryService
	logger          *slog.Logger
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(logger *slog.Logger, registryService service.RegistryService) *RegistryHandler {
	return &RegistryHandler{
		registryService: registryService,
		logger:          logger,
	}
}

// CreateLocation registers a new site
func (h *RegistryHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	loc, err := h.registryService.CreateLocation(c.Request.Context(), service.CreateLocationInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		h.logger.Error("Failed to create location", "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, loc)
}

// GetLocation returns one location
func (h *RegistryHandler) GetLocation(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	loc, err := h.registryService.GetLocation(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get location", "location_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, loc)
}

// ListLocations returns every location
func (h *RegistryHandler) ListLocations(c *gin.Context) {
	locs, err := h.registryService.ListLocations(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list locations", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, locs, len(locs))
}

// DeleteLocation removes an unreferenced location
func (h *RegistryHandler) DeleteLocation(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.registryService.DeleteLocation(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete location", "location_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}

// CreateSupervisor registers a new supervisor
func (h *RegistryHandler) CreateSupervisor(c *gin.Context) {
	var req CreateSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sup, err := h.registryService.CreateSupervisor(c.Request.Context(), service.CreateSupervisorInput{
		Code:   req.Code,
		Name:   req.Name,
		Mobile: req.Mobile,
		Email:  req.Email,
	})
	if err != nil {
		h.logger.Error("Failed to create supervisor", "code", req.Code, "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, sup)
}

// GetSupervisor returns one supervisor
func (h *RegistryHandler) GetSupervisor(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	sup, err := h.registryService.GetSupervisor(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get supervisor", "supervisor_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, sup)
}

// ListSupervisors returns every supervisor
func (h *RegistryHandler) ListSupervisors(c *gin.Context) {
	sups, err := h.registryService.ListSupervisors(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list supervisors", "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, sups, len(sups))
}

// UpdateSupervisor merges the supplied fields into a supervisor
func (h *RegistryHandler) UpdateSupervisor(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var patch registry.SupervisorPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sup, err := h.registryService.UpdateSupervisor(c.Request.Context(), id, patch)
	if err != nil {
		h.logger.Error("Failed to update supervisor", "supervisor_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, sup)
}

// DeleteSupervisor removes an unreferenced supervisor
func (h *RegistryHandler) DeleteSupervisor(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.registryService.DeleteSupervisor(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete supervisor", "supervisor_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}
