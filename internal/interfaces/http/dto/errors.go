package dto

import (
	"net/http"
	"strings"
)

// Error codes emitted by the HTTP layer itself. Domain errors keep their
// own codes and are mapped to statuses below.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes absent here fall through to the category rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Resource lookup
	"NOT_FOUND":      http.StatusNotFound,
	"USER_NOT_FOUND": http.StatusNotFound,

	// Duplicates and optimistic locking
	"ALREADY_EXISTS":       http.StatusConflict,
	"ALREADY_CONVERTED":    http.StatusConflict,
	"ALREADY_SUBSCRIBED":   http.StatusConflict,
	"SLUG_TAKEN":           http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,

	// Authorization
	"FORBIDDEN":                http.StatusForbidden,
	"CANNOT_DEACTIVATE_SELF":   http.StatusConflict,
	"ACCOUNT_DEACTIVATED":      http.StatusForbidden,
	"ORGANIZATION_DEACTIVATED": http.StatusForbidden,

	// State machine violations stay 422 despite the INVALID_ prefix
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Infrastructure
	"INTERNAL_ERROR": http.StatusInternalServerError,
	"GATEWAY_ERROR":  http.StatusBadGateway,
	"BAD_REQUEST":    http.StatusBadRequest,
	"RATE_LIMITED":   http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unlisted INVALID_* codes are treated as input validation (400); every
// other unlisted code is a business rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
