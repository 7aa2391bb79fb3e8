package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind     shared.ErrorKind
		expected int
	}{
		{shared.KindInvalidArgument, http.StatusBadRequest},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindIntegrityFault, http.StatusConflict},
		{shared.KindUnavailable, http.StatusServiceUnavailable},
		{shared.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForKind(tt.kind))
		})
	}
}

func TestRespondError_WrappedIntegrityFault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	groupID := uuid.New()
	RespondError(c, fmt.Errorf("failed to pair legs: %w", ledger.ErrIntegrityFault{GroupID: groupID, Reason: ledger.ReasonAmounts}))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"INTEGRITY_FAULT"`)
	assert.Contains(t, rr.Body.String(), groupID.String())
}

func TestRespondError_NotFoundAndConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	entryID, locationID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		fragment string
	}{
		{"NotFound", ledger.ErrEntryNotFound{ID: entryID}, http.StatusNotFound, "NOT_FOUND", entryID.String()},
		{"Conflict", registry.ErrLocationInUse{ID: locationID}, http.StatusConflict, "CONFLICT", locationID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)

			RespondError(c, fmt.Errorf("wrapped: %w", tt.err))

			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), `"code":"`+tt.code+`"`)
			assert.Contains(t, rr.Body.String(), tt.fragment)
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2}, 2, 10, 21)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 21, resp.Meta.TotalItems)

	list := NewListResponse([]int{}, 0)
	assert.Equal(t, 0, list.Meta.TotalItems)
	assert.Nil(t, list.Error)
}
