package service

import (
	"errors"
	"fmt"

	"fitcollab/fitness-app/internal/repository"
)

// ErrorKind tags every service failure so the API layer can map it to a
// status code without inspecting messages.
type ErrorKind string

const (
	KindForbidden      ErrorKind = "forbidden"
	KindNotAssigned    ErrorKind = "not_assigned"
	KindNotFound       ErrorKind = "not_found"
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindInfrastructure ErrorKind = "infrastructure"
)

// Error is the discriminated result every use case returns on failure.
// Code is a stable reason code suitable for clients; Message is a human
// readable detail that must not leak internals.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ErrForbidden builds a business denial for actors with no path to the resource.
func ErrForbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// ErrNotAssigned builds a denial for professionals without an active relationship.
func ErrNotAssigned(code, message string) *Error {
	return &Error{Kind: KindNotAssigned, Code: code, Message: message}
}

// ErrNotFound builds a missing-aggregate (or broken ownership chain) failure.
func ErrNotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// ErrValidation builds a malformed-submission failure.
func ErrValidation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// ErrConflict builds a uniqueness-violation failure.
func ErrConflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// ErrInfrastructure wraps a store fault. These propagate unchanged and are
// the only kind a caller may retry.
func ErrInfrastructure(cause error) *Error {
	return &Error{Kind: KindInfrastructure, Code: "infrastructure", Message: "store unavailable", cause: cause}
}

// KindOf extracts the kind of err, defaulting to KindInfrastructure for
// anything untagged.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInfrastructure
}

// CodeOf extracts the stable reason code of err, if any.
func CodeOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

// mapRepoErr converts a repository failure into the service taxonomy,
// using notFound when the store reports a missing document.
func mapRepoErr(err error, notFound *Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrConflict("duplicate", "resource already exists")
	}
	return ErrInfrastructure(err)
}
