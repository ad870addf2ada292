package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Registry errors
	ErrRegistryUnavailable ErrorCode = "REGISTRY_UNAVAILABLE"
	ErrVarNotFound         ErrorCode = "VAR_NOT_FOUND"
	ErrSubscribeRejected   ErrorCode = "SUBSCRIBE_REJECTED"
	ErrValueConvert        ErrorCode = "VALUE_CONVERT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Save cycle errors
	ErrFileCreate ErrorCode = "FILE_CREATE"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrRename     ErrorCode = "RENAME"
)

// SavesvcError represents a structured error with code and details
type SavesvcError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SavesvcError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SavesvcError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SavesvcError) Is(target error) bool {
	var targetErr *SavesvcError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SavesvcError with the given code and message
func New(code ErrorCode, message string) *SavesvcError {
	return &SavesvcError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SavesvcError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SavesvcError {
	return &SavesvcError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SavesvcError
func Wrap(err error, code ErrorCode, message string) *SavesvcError {
	if err == nil {
		return nil
	}
	return &SavesvcError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SavesvcError {
	if err == nil {
		return nil
	}
	return &SavesvcError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SavesvcError) WithDetail(key string, value interface{}) *SavesvcError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var svcErr *SavesvcError
	if errors.As(err, &svcErr) {
		return svcErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SavesvcError
func GetErrorCode(err error) ErrorCode {
	var svcErr *SavesvcError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrUnknown
}
