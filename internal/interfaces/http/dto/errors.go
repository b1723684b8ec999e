package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain codes such as
// INVALID_TRANSITION or QUANTITY_EXCEEDED pass through unchanged.
const (
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeInvalidID      = "INVALID_ID"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeSessionExpired = "SESSION_EXPIRED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeTenantMismatch = "TENANT_MISMATCH"
	ErrCodeTenantNotFound = "TENANT_NOT_FOUND"
	ErrCodeTenantInactive = "TENANT_SUSPENDED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeBodyTooLarge   = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus lists every code whose status is not 400. Codes that
// are not listed are business-rule or input failures and map to 400.
var ErrorCodeHTTPStatus = map[string]int{
	// 401: no usable session
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeSessionExpired: http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"SESSION_INVALID":     http.StatusUnauthorized,
	"SESSION_REVOKED":     http.StatusUnauthorized,

	// 403: the caller is known but may not do this here
	ErrCodeForbidden:      http.StatusForbidden,
	ErrCodeTenantMismatch: http.StatusForbidden,
	ErrCodeTenantInactive: http.StatusForbidden,
	"ACCOUNT_PENDING":     http.StatusForbidden,
	"ACCOUNT_SUSPENDED":   http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,

	// 404
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeTenantNotFound: http.StatusNotFound,

	// transport limits
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	// 500
	ErrCodeInternal:       http.StatusInternalServerError,
	"DB_ERROR":            http.StatusInternalServerError,
	"STORAGE_DISABLED":    http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if code == "" {
		return http.StatusInternalServerError
	}
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
