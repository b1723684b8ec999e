package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"", http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_TRANSITION", http.StatusBadRequest},
		{"INVALID_STATE", http.StatusBadRequest},
		{"ALREADY_EXISTS", http.StatusBadRequest},
		{"QUANTITY_EXCEEDED", http.StatusBadRequest},
		{"INSUFFICIENT_STOCK", http.StatusBadRequest},
		{"CONCURRENCY_CONFLICT", http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"SESSION_REVOKED", http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTenantMismatch, http.StatusForbidden},
		{"ACCOUNT_PENDING", http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{"TENANT_NOT_FOUND", http.StatusNotFound},
		{"WAREHOUSE_NOT_FOUND", http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainSentinelsMapToDocumentedStatuses(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(shared.ErrNotFound.Code))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(shared.ErrAlreadyExists.Code))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(shared.ErrInvalidInput.Code))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(shared.ErrInvalidTransition.Code))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(shared.ErrUnauthorized.Code))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(shared.ErrForbidden.Code))
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID("INVALID_TRANSITION", "invalid status transition from expecting to put_away", "req-1")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "invalid status transition from expecting to put_away", decoded["message"])
	assert.Equal(t, "INVALID_TRANSITION", decoded["code"])
	assert.Equal(t, "req-1", decoded["request_id"])
	assert.NotContains(t, decoded, "details")
	assert.NotContains(t, decoded, "success")
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "container_number", Message: "Invalid ISO 6346 container number"},
		{Field: "size", Message: "Must be one of: 20GP 40GP"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.Equal(t, ErrCodeValidation, resp.Code)
	assert.Equal(t, "Request validation failed", resp.Message)
	assert.Equal(t, "req-789", resp.RequestID)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "container_number", resp.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 0},
		{9, 10, 1},
		{5, 0, 0},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestNewPageResponse(t *testing.T) {
	page := query.NewPage[string](nil, 0, shared.Filter{Page: 1, PageSize: 20})
	resp := NewPageResponse(page)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[],"meta":{"total":0,"page":1,"page_size":20,"total_pages":0}}`, string(data))
}
