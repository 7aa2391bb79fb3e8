package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sitebooks-ledger/internal/domain/workforce"
	"github.com/sitebooks-ledger/internal/ledger_api/service"
)

// WorkforceHandler handles HTTP requests for attendance and salaries
type WorkforceHandler struct {
	workforceService service.WorkforceService
	logger           *slog.Logger
}

// NewWorkforceHandler creates a new workforce handler
func NewWorkforceHandler(logger *slog.Logger, workforceService service.WorkforceService) *WorkforceHandler {
	return &WorkforceHandler{
		workforceService: workforceService,
		logger:           logger,
	}
}

// MarkAttendance sets a supervisor's status for one day
func (h *WorkforceHandler) MarkAttendance(c *gin.Context) {
	supervisorID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := parseTime(req.Date, "date", false)
	if err != nil {
		RespondError(c, err)
		return
	}

	att, err := h.workforceService.MarkAttendance(c.Request.Context(), supervisorID, date, req.Status)
	if err != nil {
		h.logger.Error("Failed to mark attendance", "supervisor_id", supervisorID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, att)
}

// AttendanceHistory returns a supervisor's attendance, latest day first
func (h *WorkforceHandler) AttendanceHistory(c *gin.Context) {
	supervisorID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	records, err := h.workforceService.AttendanceHistory(c.Request.Context(), supervisorID)
	if err != nil {
		h.logger.Error("Failed to list attendance", "supervisor_id", supervisorID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondWithList(c, records, len(records))
}

// DeleteAttendance removes one attendance record
func (h *WorkforceHandler) DeleteAttendance(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.workforceService.DeleteAttendance(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete attendance", "attendance_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}

func (h *WorkforceHandler) bindSalary(c *gin.Context) (service.SalaryInput, bool) {
	var req SalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return service.SalaryInput{}, false
	}

	supervisorID, err := parseOptionalID(req.SupervisorID, "supervisor_id")
	if err != nil {
		RespondError(c, err)
		return service.SalaryInput{}, false
	}
	paidDate, err := parseOptionalTime(req.PaidDate, "paid_date")
	if err != nil {
		RespondError(c, err)
		return service.SalaryInput{}, false
	}

	return service.SalaryInput{
		SupervisorID: supervisorID,
		Amount:       req.Amount,
		Month:        req.Month,
		Year:         req.Year,
		PaidDate:     paidDate,
	}, true
}

// AddSalary records a salary payment. A period that is already paid is a conflict.
func (h *WorkforceHandler) AddSalary(c *gin.Context) {
	in, ok := h.bindSalary(c)
	if !ok {
		return
	}

	salary, err := h.workforceService.AddSalary(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("Failed to add salary", "supervisor_id", in.SupervisorID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondCreated(c, salary)
}

// MarkSalary records or replaces the salary of a period
func (h *WorkforceHandler) MarkSalary(c *gin.Context) {
	in, ok := h.bindSalary(c)
	if !ok {
		return
	}

	salary, err := h.workforceService.MarkSalary(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("Failed to mark salary", "supervisor_id", in.SupervisorID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, salary)
}

// SalaryHistory returns a supervisor's salaries with totals
func (h *WorkforceHandler) SalaryHistory(c *gin.Context) {
	supervisorID, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	history, err := h.workforceService.SalaryHistory(c.Request.Context(), supervisorID)
	if err != nil {
		h.logger.Error("Failed to get salary history", "supervisor_id", supervisorID.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, history)
}

// GetSalary returns one salary record
func (h *WorkforceHandler) GetSalary(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	salary, err := h.workforceService.GetSalary(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get salary", "salary_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, salary)
}

// UpdateSalary merges the supplied fields into a salary record
func (h *WorkforceHandler) UpdateSalary(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var patch workforce.SalaryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	salary, err := h.workforceService.UpdateSalary(c.Request.Context(), id, patch)
	if err != nil {
		h.logger.Error("Failed to update salary", "salary_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondOK(c, salary)
}

// DeleteSalary removes a salary record
func (h *WorkforceHandler) DeleteSalary(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.workforceService.DeleteSalary(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete salary", "salary_id", id.String(), "error", err)
		RespondError(c, err)
		return
	}

	RespondNoContent(c)
}
