package dto

import (
	"github.com/tms/backend/internal/application/query"
)

// Response is the success envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// ErrorResponse is the body of every failed request. Message is always set.
type ErrorResponse struct {
	Message   string             `json:"message"`
	Code      string             `json:"code,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected field or line
type ValidationDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewPageResponse wraps a service page in the success envelope
func NewPageResponse[T any](page *query.Page[T]) Response {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return NewSuccessResponseWithMeta(items, page.Total, page.Page, page.PageSize)
}

// NewErrorResponse creates an error body
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}

// NewErrorResponseWithRequestID creates an error body tagged with the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, RequestID: requestID}
}

// NewValidationErrorResponse creates a 400 body listing the rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	return ErrorResponse{
		Code:      ErrCodeValidation,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}
}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=200"`
}

// DefaultListRequest returns a list request with defaults
func DefaultListRequest() ListRequest {
	return ListRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
