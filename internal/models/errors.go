package models

import "fmt"

// ValidationError represents malformed input rejected before any side effect
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError represents a referenced recipe, store or item that does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// NewNotFoundError creates a not-found error for the given record kind and id.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// InsufficientDataError represents a slot or item with no feasible option.
// Top-level operations degrade it to a warning plus an empty slot or
// unallocated item rather than failing the whole result.
type InsufficientDataError struct {
	Subject string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("no feasible option for %s", e.Subject)
}

// NewInsufficientDataError creates an insufficient-data error for the subject.
func NewInsufficientDataError(subject string) *InsufficientDataError {
	return &InsufficientDataError{Subject: subject}
}

// StorageError represents an unavailable persistence layer. It is propagated
// to the caller, which may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps a persistence failure for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// ExternalServiceError represents a routing/weather provider failure. The
// travel estimator always converts it to a static fallback; it never reaches
// a caller of the planning core.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// NewExternalServiceError wraps an external provider failure.
func NewExternalServiceError(service string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Err: err}
}
