package apperrors

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Error represents an application error carrying the HTTP status it
// should resolve to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation is a 400 for malformed or missing input.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound is a 404 for an unknown program, session, or payment.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Forbidden is a 403 for cross-user access.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

// Unauthorized is a 401 for missing or invalid credentials.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

// Gateway is a 500 for a failed payment-provider call. The wrapped error
// is only surfaced to clients in development mode.
func Gateway(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Internal is a generic 500.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// DuplicatePurchaseError is returned when a completed payment already
// exists for the same user and training program. It carries the existing
// payment id for client reference.
type DuplicatePurchaseError struct {
	PaymentID uuid.UUID
}

func (e *DuplicatePurchaseError) Error() string {
	return "training program already purchased"
}

// SignatureVerificationError is returned when a webhook payload fails
// provider signature verification.
type SignatureVerificationError struct {
	Err error
}

func (e *SignatureVerificationError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %v", e.Err)
}

func (e *SignatureVerificationError) Unwrap() error {
	return e.Err
}
