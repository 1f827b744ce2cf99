package tracker

import (
	"errors"
	"fmt"
)

// Error types for tracker operations. A path token that does not parse as a
// valid handle is NOT represented here: it is a negative lookup result that
// falls through to username resolution.

// UserError represents errors related to user directory operations
type UserError struct {
	Type    string
	Token   string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for %q: %s (caused by: %v)", e.Type, e.Token, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for %q: %s", e.Type, e.Token, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeAlreadyExists    = "already_exists"
	UserErrorTypeNotFound         = "not_found"
	UserErrorTypeValidationFailed = "validation_failed"
)

// NewUserAlreadyExistsError creates an error for when a username is taken
func NewUserAlreadyExistsError(username string) *UserError {
	return &UserError{
		Type:    UserErrorTypeAlreadyExists,
		Token:   username,
		Message: "user already exists with this username",
	}
}

// NewUserNotFoundError creates an error for when a token resolves to no user
func NewUserNotFoundError(token string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		Token:   token,
		Message: "user not found by id or username",
	}
}

// NewUserValidationError creates an error for user input validation failures
func NewUserValidationError(token string, message string) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidationFailed,
		Token:   token,
		Message: message,
	}
}

// RecordError represents errors related to exercise record operations
type RecordError struct {
	Type    string
	Field   string
	Message string
	Cause   error
}

func (e *RecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("record error [%s] for field '%s': %s (caused by: %v)", e.Type, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("record error [%s] for field '%s': %s", e.Type, e.Field, e.Message)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}

// Record error types
const (
	RecordErrorTypeValidationFailed = "validation_failed"
)

// NewRecordValidationError creates an error for record input validation failures
func NewRecordValidationError(field string, message string) *RecordError {
	return &RecordError{
		Type:    RecordErrorTypeValidationFailed,
		Field:   field,
		Message: message,
	}
}

// NewRecordValidationErrorWithCause creates a validation error wrapping a parse failure
func NewRecordValidationErrorWithCause(field string, message string, cause error) *RecordError {
	return &RecordError{
		Type:    RecordErrorTypeValidationFailed,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// StorageError represents unexpected persistence failures. These are the only
// errors surfaced to clients as internal failures.
type StorageError struct {
	Type      string
	Operation string
	Resource  string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error [%s] during %s on %s (caused by: %v)", e.Type, e.Operation, e.Resource, e.Cause)
	}
	return fmt.Sprintf("storage error [%s] during %s on %s", e.Type, e.Operation, e.Resource)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Storage error types
const (
	StorageErrorTypeConnectionFailed = "connection_failed"
	StorageErrorTypeQueryFailed      = "query_failed"
)

// NewStorageQueryError creates an error for storage query failures
func NewStorageQueryError(operation, resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeQueryFailed,
		Operation: operation,
		Resource:  resource,
		Cause:     cause,
	}
}

// NewStorageConnectionError creates an error for storage connection failures
func NewStorageConnectionError(operation, resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeConnectionFailed,
		Operation: operation,
		Resource:  resource,
		Cause:     cause,
	}
}

// Classification helpers used by the HTTP layer to map errors onto statuses.

func IsNotFound(err error) bool {
	var ue *UserError
	return errors.As(err, &ue) && ue.Type == UserErrorTypeNotFound
}

func IsAlreadyExists(err error) bool {
	var ue *UserError
	return errors.As(err, &ue) && ue.Type == UserErrorTypeAlreadyExists
}

func IsValidation(err error) bool {
	var ue *UserError
	if errors.As(err, &ue) && ue.Type == UserErrorTypeValidationFailed {
		return true
	}
	var re *RecordError
	return errors.As(err, &re) && re.Type == RecordErrorTypeValidationFailed
}
