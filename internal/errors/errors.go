package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = New(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = New(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = New(ErrCodeValidation, "validation error")
	ErrInvalidOperation = New(ErrCodeInvalidOperation, "invalid operation")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "unauthorized")
	ErrPermissionDenied = New(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient       = New(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = New(ErrCodeDatabase, "database error")
	ErrSystem           = New(ErrCodeSystemError, "system error")

	// Reconciliation outcomes that reject a single resource body
	ErrParentNotFound   = New(ErrCodeParentNotFound, "parent resource not found")
	ErrMalformedPayload = New(ErrCodeMalformedPayload, "malformed payload")
	ErrTerminalState    = New(ErrCodeTerminalState, "terminal state violation")

	// ErrStoreUnavailable marks transient persistence failures the sender must redeliver
	ErrStoreUnavailable = New(ErrCodeStoreUnavailable, "store unavailable")
)

// statusCodes is evaluated in order; an error carrying several marks resolves to the first match.
var statusCodes = []struct {
	err    error
	status int
}{
	{ErrStoreUnavailable, http.StatusServiceUnavailable},
	{ErrDatabase, http.StatusInternalServerError},
	{ErrSystem, http.StatusInternalServerError},
	{ErrHTTPClient, http.StatusBadGateway},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrPermissionDenied, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrTerminalState, http.StatusConflict},
	{ErrParentNotFound, http.StatusUnprocessableEntity},
	{ErrMalformedPayload, http.StatusBadRequest},
	{ErrValidation, http.StatusBadRequest},
	{ErrInvalidOperation, http.StatusBadRequest},
}

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"
	ErrCodeParentNotFound   = "parent_not_found"
	ErrCodeMalformedPayload = "malformed_payload"
	ErrCodeTerminalState    = "terminal_state_violation"
	ErrCodeStoreUnavailable = "store_unavailable"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

func IsParentNotFound(err error) bool {
	return errors.Is(err, ErrParentNotFound)
}

func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

func IsTerminalState(err error) bool {
	return errors.Is(err, ErrTerminalState)
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrDatabase)
}

// IsReconcileRejection reports whether err rejects one resource body without
// implicating the store. Such notifications are still acknowledged.
func IsReconcileRejection(err error) bool {
	return IsParentNotFound(err) || IsMalformedPayload(err) || IsTerminalState(err)
}

// Code returns the machine-readable code of the first known sentinel err carries
func Code(err error) string {
	var internal *InternalError
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) && errors.As(sc.err, &internal) {
			return internal.Code
		}
	}
	return ErrCodeSystemError
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
