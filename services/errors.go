package services

import (
	"errors"
	"fmt"
)

// ErrKind classifies a service failure so the HTTP layer can pick a status
// without parsing messages.
type ErrKind int

const (
	KindInternal ErrKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindAlreadyInState
	KindUnavailable
	KindInsufficientStock
	KindEmptyCart
)

// Error is a service failure with a caller-facing message.
type Error struct {
	Kind    ErrKind
	Message string

	// Available is set on KindInsufficientStock errors only.
	Available int
}

func (e *Error) Error() string { return e.Message }

// E builds a service error.
func E(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports how many units are still available.
func InsufficientStock(available int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("Not enough stocks, available at the moment is %d", available),
		Available: available,
	}
}

// KindOf extracts the kind from an error chain, defaulting to KindInternal.
func KindOf(err error) ErrKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
