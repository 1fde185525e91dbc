package models

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation         ErrorKind = "ValidationError"
	KindNotFound           ErrorKind = "NotFound"
	KindCapacityExceeded   ErrorKind = "CapacityExceeded"
	KindPersistenceFailure ErrorKind = "PersistenceFailure"
	KindUnauthorized       ErrorKind = "Unauthorized"
	KindLocked             ErrorKind = "Locked"
	KindConflict           ErrorKind = "Conflict"
	KindInternal           ErrorKind = "InternalError"
)

// DomainError is the error type returned by services.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Field   string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status.
func (e *DomainError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindCapacityExceeded, KindConflict:
		return http.StatusConflict
	case KindPersistenceFailure:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindLocked:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(field, message string) error {
	return &DomainError{Kind: KindValidation, Field: field, Message: message}
}

func NewNotFound(resource, id string) error {
	return &DomainError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

func NewCapacityExceeded(technicianID string) error {
	return &DomainError{
		Kind:    KindCapacityExceeded,
		Message: fmt.Sprintf("technician %s at maximum workload (%d/%d)", technicianID, MaxWorkload, MaxWorkload),
		Details: map[string]any{"technicianId": technicianID},
	}
}

func NewPersistenceFailure(collection string, err error) error {
	return &DomainError{
		Kind:    KindPersistenceFailure,
		Message: fmt.Sprintf("failed to save %s", collection),
		Details: map[string]any{"collection": collection},
		Err:     err,
	}
}

func NewUnauthorized(message string) error {
	return &DomainError{Kind: KindUnauthorized, Message: message}
}

func NewLocked(message string) error {
	return &DomainError{Kind: KindLocked, Message: message}
}

func NewConflict(message string, details map[string]any) error {
	return &DomainError{Kind: KindConflict, Message: message, Details: details}
}

// ToDomainError wraps unknown errors as internal errors.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return &DomainError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the kind of err, or "" when err is nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Kind
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// NewNoAvailableTechnician reports that nobody has spare capacity.
func NewNoAvailableTechnician() error {
	return &DomainError{
		Kind:    KindCapacityExceeded,
		Message: "no technician with available capacity",
	}
}
