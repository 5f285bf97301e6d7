package dto

import (
	"net/http"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
)

// Transport error codes. Domain errors keep their own code in responses.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeUnauthorized    = shared.CodeUnauthorized
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// InternalErrorMessage is the only message a 500 response carries
const InternalErrorMessage = "An unexpected error occurred"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,

	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeIdempotencyReplay:   http.StatusConflict,

	// Business rule violations the caller can fix by changing the request
	shared.CodeInvalidInput:           http.StatusBadRequest,
	shared.CodeInvalidState:           http.StatusBadRequest,
	shared.CodeInsufficientStock:      http.StatusBadRequest,
	shared.CodeUnitNotConfigured:      http.StatusBadRequest,
	shared.CodeIncompatibleUnitType:   http.StatusBadRequest,
	shared.CodeEmptyInvoice:           http.StatusBadRequest,
	shared.CodeDuplicateInvoiceNumber: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted *_NOT_FOUND codes map to 404 and every other domain code to 400.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
