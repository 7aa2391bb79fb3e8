package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// CreateLocationRequest represents the request body for creating a location
type CreateLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateSupervisorRequest represents the request body for creating a supervisor
type CreateSupervisorRequest struct {
	Code   string `json:"code" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
}

// CreateEntryRequest represents the request body for a ledger operation.
// Kind internal_transfer uses the source and destination fields instead of
// location_id.
type CreateEntryRequest struct {
	Kind                  string           `json:"kind" binding:"required"`
	Amount                *decimal.Decimal `json:"amount"`
	Description           string           `json:"description"`
	SupervisorID          string           `json:"supervisor_id"`
	LocationID            string           `json:"location_id"`
	Status                string           `json:"status"`
	SourceLocationID      string           `json:"source_location_id"`
	DestinationLocationID string           `json:"destination_location_id"`
}

// TransferRequest represents the request body for an internal transfer
type TransferRequest struct {
	Amount                *decimal.Decimal `json:"amount"`
	SupervisorID          string           `json:"supervisor_id"`
	SourceLocationID      string           `json:"source_location_id"`
	DestinationLocationID string           `json:"destination_location_id"`
	Description           string           `json:"description"`
}

// CreateItemRequest represents the request body for an item breakdown
type CreateItemRequest struct {
	ItemName   string            `json:"item_name"`
	LocationID string            `json:"location_id"`
	Lines      []ledger.ItemLine `json:"entries"`
}

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	Title       string           `json:"title"`
	Amount      *decimal.Decimal `json:"amount"`
	InvoiceDate string           `json:"invoice_date"`
	LocationID  string           `json:"location_id"`
}

// MarkAttendanceRequest represents the request body for marking attendance
type MarkAttendanceRequest struct {
	Date   string `json:"date" binding:"required"`
	Status string `json:"status"`
}

// SalaryRequest represents the request body for adding or marking a salary
type SalaryRequest struct {
	SupervisorID string           `json:"supervisor_id"`
	Amount       *decimal.Decimal `json:"amount"`
	Month        int              `json:"month"`
	Year         int              `json:"year"`
	PaidDate     string           `json:"paid_date"`
}

// PaginationParams represents common pagination parameters
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// parseID parses a required UUID and reports failures against field
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, shared.InvalidArgument(field, "must be a valid UUID")
	}
	return id, nil
}

// parseOptionalID returns uuid.Nil for an empty value so the domain can report
// the field as missing
func parseOptionalID(raw, field string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	return parseID(raw, field)
}

// parseTime accepts RFC 3339 timestamps and plain dates. A plain date used as
// an upper bound covers the whole day.
func parseTime(raw, field string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, shared.InvalidArgument(field, "must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseOptionalTime returns nil for an empty value
func parseOptionalTime(raw, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseTime(raw, field, false)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateRangeFromQuery reads the optional from and to query parameters
func dateRangeFromQuery(c *gin.Context) (ledger.DateRange, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw, "from", false)
		if err != nil {
			return ledger.DateRange{}, err
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw, "to", true)
		if err != nil {
			return ledger.DateRange{}, err
		}
		to = &t
	}
	return ledger.NewDateRange(from, to)
}

// limitFromQuery reads the optional limit query parameter
func limitFromQuery(c *gin.Context) (shared.Optional[int], error) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return shared.Optional[int]{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return shared.Optional[int]{}, shared.InvalidArgument("limit", "must be a positive integer")
	}
	return shared.Some(n), nil
}
