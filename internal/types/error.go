package types

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the store, service and handler layers.
// Callers wrap these with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	// ErrValidation reports a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports an identifier that is malformed for the store's id format.
	ErrNotFound = errors.New("invalid id")
	// ErrStoreUnavailable reports that no persistent store can serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnauthorized reports a request without a usable principal.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden reports a principal acting on a record it does not own.
	ErrForbidden = errors.New("forbidden")
)

// CustomError carries an HTTP status and error type through the fiber error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
