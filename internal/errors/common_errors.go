package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchemaMismatch       ErrorType = "SCHEMA_MISMATCH"
	ErrTypeRowValidation        ErrorType = "ROW_VALIDATION"
	ErrTypeAggregationUndefined ErrorType = "AGGREGATION_UNDEFINED"
	ErrTypeExport               ErrorType = "EXPORT"
	ErrTypeParsing              ErrorType = "PARSING"
	ErrTypeValidation           ErrorType = "VALIDATION"
	ErrTypeNotFound             ErrorType = "NOT_FOUND"
	ErrTypeConfig               ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err, or anything it wraps, is an AppError of errType.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	for err != nil {
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errType {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// TypeOf returns the type of the outermost AppError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// Helper functions for common error types

// NewSchemaMismatchError reports a source file that does not satisfy the
// declared schema. It is fatal to the load.
func NewSchemaMismatchError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, message, cause)
}

// NewRowValidationError describes a row excluded by cleaning. Callers absorb
// it into filtering rather than returning it.
func NewRowValidationError(message string) *AppError {
	return NewAppError(ErrTypeRowValidation, message, nil)
}

// NewAggregationUndefinedError describes a report value with a zero or
// missing denominator.
func NewAggregationUndefinedError(message string) *AppError {
	return NewAppError(ErrTypeAggregationUndefined, message, nil)
}

// NewExportError creates an output-writing error
func NewExportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExport, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
