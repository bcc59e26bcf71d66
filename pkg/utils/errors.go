package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory represents the category of an error
type ErrorCategory int

const (
	CategorySystem ErrorCategory = iota
	CategoryFileSystem
	CategoryConfiguration
	CategoryValidation
	CategoryEvaluation
	CategoryUser
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryFileSystem:
		return "filesystem"
	case CategoryConfiguration:
		return "configuration"
	case CategoryValidation:
		return "validation"
	case CategoryEvaluation:
		return "evaluation"
	case CategoryUser:
		return "user"
	}
	return "system"
}

// StructuredError is the error shape returned across the CLI and HTTP
// boundaries.
type StructuredError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Category  ErrorCategory  `json:"-"`
	Resource  string         `json:"resource,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	RootCause error          `json:"-"`
	Timestamp int64          `json:"timestamp"`
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.RootCause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.RootCause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for compatibility with errors.Is and errors.As
func (e *StructuredError) Unwrap() error {
	return e.RootCause
}

// NewStructuredError creates a new structured error
func NewStructuredError(code, message string, category ErrorCategory, rootCause error) *StructuredError {
	return &StructuredError{
		Code:      code,
		Message:   message,
		Category:  category,
		RootCause: rootCause,
		Timestamp: time.Now().Unix(),
	}
}

// NewFileSystemError creates a filesystem-related error
func NewFileSystemError(operation, path string, rootCause error) *StructuredError {
	return NewStructuredError(
		"FS_ERROR",
		fmt.Sprintf("Filesystem error during %s", operation),
		CategoryFileSystem,
		rootCause,
	).WithResource(path)
}

// NewConfigError creates a configuration-related error
func NewConfigError(key string, rootCause error) *StructuredError {
	return NewStructuredError(
		"CONFIG_ERROR",
		fmt.Sprintf("Configuration error for key: %s", key),
		CategoryConfiguration,
		rootCause,
	).WithResource(key)
}

// NewValidationError creates a validation error
func NewValidationError(field, reason string) *StructuredError {
	return NewStructuredError(
		"VALIDATION_ERROR",
		fmt.Sprintf("Validation failed for %s: %s", field, reason),
		CategoryValidation,
		nil,
	).WithResource(field)
}

// NewEvaluationError reports a condition that could not be evaluated.
func NewEvaluationError(expression string, rootCause error) *StructuredError {
	return NewStructuredError(
		"EVAL_ERROR",
		"Condition could not be evaluated",
		CategoryEvaluation,
		rootCause,
	).WithMetadata("expression", expression)
}

// NewUserError creates a user-facing error
func NewUserError(message string, rootCause error) *StructuredError {
	return NewStructuredError("USER_ERROR", message, CategoryUser, rootCause)
}

// WithResource records the file, key or field the error concerns.
func (e *StructuredError) WithResource(resource string) *StructuredError {
	e.Resource = resource
	return e
}

// WithMetadata adds metadata to the error
func (e *StructuredError) WithMetadata(key string, value any) *StructuredError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// AsStructured returns err as a StructuredError, wrapping plain errors as
// system errors.
func AsStructured(err error) *StructuredError {
	if err == nil {
		return nil
	}
	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}
	return NewStructuredError("SYS_ERROR", err.Error(), CategorySystem, err)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var se *StructuredError
	return errors.As(err, &se) && se.Category == CategoryValidation
}
