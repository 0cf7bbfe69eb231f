package errors

import "fmt"

// ErrorCode represents an atext2csv error code.
type ErrorCode string

const (
	ErrMagicNotFound       ErrorCode = "MAGIC_NOT_FOUND"      // 422
	ErrDecompressionFailed ErrorCode = "DECOMPRESSION_FAILED" // 422
	ErrInvalidStructure    ErrorCode = "INVALID_STRUCTURE"    // 422
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrFileNotFound        ErrorCode = "FILE_NOT_FOUND"       // 404
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrCancelled           ErrorCode = "CANCELLED"            // 499
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// AtextError represents a structured error with code, status, and details.
type AtextError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *AtextError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AtextError) Unwrap() error {
	return e.cause
}

// NewMagicNotFound creates a 422 error for input that carries no LZ4 frame signature.
func NewMagicNotFound(source string) *AtextError {
	return &AtextError{
		Code:    ErrMagicNotFound,
		Status:  422,
		Message: fmt.Sprintf("LZ4 frame magic not found in %s; this may not be a valid .atext file", source),
		Details: map[string]any{"source": source},
	}
}

// NewDecompressionFailed creates a 422 error for a truncated or corrupt frame.
func NewDecompressionFailed(offset int, err error) *AtextError {
	msg := "compressed frame is invalid"
	if err != nil {
		msg = fmt.Sprintf("compressed frame at offset %d is invalid: %v", offset, err)
	}
	return &AtextError{
		Code:    ErrDecompressionFailed,
		Status:  422,
		Message: msg,
		Details: map[string]any{"offset": offset},
		cause:   err,
	}
}

// NewInvalidStructure creates a 422 error when the decompressed payload is not a JSON document.
func NewInvalidStructure(msg string) *AtextError {
	return &AtextError{
		Code:    ErrInvalidStructure,
		Status:  422,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *AtextError {
	return &AtextError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewFileNotFound creates a 404 error for a missing input file.
func NewFileNotFound(path string) *AtextError {
	return &AtextError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNotFound creates a 404 error for a snippet that cannot be found.
func NewNotFound(identifier string) *AtextError {
	return &AtextError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("snippet not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewCancelled creates a 499 error when an operation is cancelled via context.
func NewCancelled(operation string) *AtextError {
	return &AtextError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AtextError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AtextError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is an AtextError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := err.(*AtextError); ok {
		return aErr.Code == code
	}
	return false
}
