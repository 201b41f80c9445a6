// Package errors provides the structured error types used by the istring CLI
// and render pipeline. The value types in pkg/ never fail and do not use it.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeInvalidDocument = "ERR_INVALID_DOCUMENT"
	ErrCodeInvalidName     = "ERR_INVALID_NAME"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound    = "ERR_FILE_NOT_FOUND"
	ErrCodeReadFailed      = "ERR_READ_FAILED"
	ErrCodeRenderFailed    = "ERR_RENDER_FAILED"
	ErrCodeWatchFailed     = "ERR_WATCH_FAILED"
	ErrCodeInternalError   = "ERR_INTERNAL"
)

// IStringError is a structured error type with context.
type IStringError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	FilePath    string
	Line        int
	Recoverable bool
}

// Error implements the error interface.
func (e *IStringError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *IStringError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *IStringError) Is(target error) bool {
	var t *IStringError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *IStringError) WithContext(key string, value interface{}) *IStringError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *IStringError) WithLocation(filePath string, line int) *IStringError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *IStringError {
	return &IStringError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *IStringError {
	return &IStringError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *IStringError {
	return &IStringError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewRenderError creates a render error. Render errors are recoverable: the
// next document update can succeed.
func NewRenderError(code, message string, cause error) *IStringError {
	return &IStringError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// Wrap wraps an error with additional context, creating an IStringError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *IStringError {
	if err == nil {
		return nil
	}

	var ie *IStringError
	if errors.As(err, &ie) {
		return &IStringError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       ie,
			Context:     ie.Context,
			FilePath:    ie.FilePath,
			Line:        ie.Line,
			Recoverable: ie.Recoverable,
		}
	}

	return &IStringError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeRender,
	}
}

// IsType checks whether err carries the given error type.
func IsType(err error, errType ErrorType) bool {
	var ie *IStringError
	if errors.As(err, &ie) {
		return ie.Type == errType
	}

	return false
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ie *IStringError
	if errors.As(err, &ie) {
		return ie.Recoverable
	}

	return false
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level matching its type.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var ie *IStringError
	if !errors.As(err, &ie) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	if ie.Recoverable {
		h.logger.Warn(ctx, err, "Recoverable error occurred",
			"type", ie.Type,
			"code", ie.Code,
			"file", ie.FilePath)
		return
	}

	h.logger.Error(ctx, err, "Error occurred",
		"type", ie.Type,
		"code", ie.Code,
		"file", ie.FilePath)
}
