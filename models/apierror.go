package models

import (
	"net/http"
	"strings"
)

// ErrorCode classifies a failure into the kiosk's error taxonomy. The set
// is client-defined and not exhaustive of what the server can return.
type ErrorCode string

const (
	ErrMissingAddress ErrorCode = "MISSING_ADDRESS"
	ErrTableClosed    ErrorCode = "TABLE_CLOSED"
	ErrSessionExpired ErrorCode = "SESSION_EXPIRED"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrNetwork        ErrorCode = "NETWORK_ERROR"
	ErrUnknown        ErrorCode = "UNKNOWN_ERROR"
)

// APIError is a failure enriched with a taxonomy code. Every error that
// crosses the remote API boundary is wrapped into one before callers see it.
type APIError struct {
	Code    ErrorCode
	Message string
	Status  int // HTTP status when the server answered, 0 otherwise
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the taxonomy code to the status the local facade should
// answer with.
func (e *APIError) HTTPStatus() int {
	switch e.Code {
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrSessionExpired:
		return http.StatusUnauthorized
	case ErrMissingAddress, ErrValidation, ErrTableClosed:
		return http.StatusUnprocessableEntity
	case ErrNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAPIError builds an APIError with an explicit code.
func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// ClassifyError derives a taxonomy code for a server failure. Order of
// precedence: an explicit server code, then message-text patterns (a
// deprecated fallback coupled to server wording), then HTTP status
// heuristics, then unknown.
func ClassifyError(status int, serverCode, message string) ErrorCode {
	switch serverCode {
	case "MISSING_ADDRESS", "SIN_DIRECCION":
		return ErrMissingAddress
	case "TABLE_CLOSED", "MESA_CERRADA":
		return ErrTableClosed
	case "SESSION_EXPIRED", "SESION_EXPIRADA":
		return ErrSessionExpired
	case "UNAUTHORIZED", "NO_AUTORIZADO":
		return ErrUnauthorized
	case "VALIDATION_ERROR":
		return ErrValidation
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "direccion"), strings.Contains(lower, "dirección"):
		return ErrMissingAddress
	case strings.Contains(lower, "mesa cerrada"), strings.Contains(lower, "mesa bloqueada"):
		return ErrTableClosed
	case strings.Contains(lower, "sesion expirada"), strings.Contains(lower, "sesión expirada"):
		return ErrSessionExpired
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case 419, http.StatusForbidden:
		return ErrSessionExpired
	case http.StatusUnprocessableEntity, http.StatusConflict:
		return ErrValidation
	}

	return ErrUnknown
}
