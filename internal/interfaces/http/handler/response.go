package handler

import "github.com/tms/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Error body returned with every 4xx and 5xx status
type ErrorResponse struct {
	Message   string                 `json:"message" example:"container not found"`
	Code      string                 `json:"code,omitempty" example:"NOT_FOUND"`
	RequestID string                 `json:"request_id,omitempty" example:"4f2c8e1a9b7d4c3e"`
	Details   []dto.ValidationDetail `json:"details,omitempty"`
}
