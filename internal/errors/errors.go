package errors

import (
	"errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NotFoundError reports a missing Customer, Order, Product or AddOn.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NewNotFoundError(kind string, id any) *NotFoundError {
	return &NotFoundError{
		Kind: kind,
		ID:   fmt.Sprint(id),
	}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

func IsInvalidArgumentError(err error) (*InvalidArgumentError, bool) {
	var iae *InvalidArgumentError
	if errors.As(err, &iae) {
		return iae, true
	}
	return nil, false
}

type PreconditionFailedError struct {
	Message string
}

func (e *PreconditionFailedError) Error() string {
	return e.Message
}

func NewPreconditionFailedError(format string, args ...any) *PreconditionFailedError {
	return &PreconditionFailedError{Message: fmt.Sprintf(format, args...)}
}

func IsPreconditionFailedError(err error) (*PreconditionFailedError, bool) {
	var pfe *PreconditionFailedError
	if errors.As(err, &pfe) {
		return pfe, true
	}
	return nil, false
}

// InvalidTransitionError names both ends of a rejected status edge.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	var ite *InvalidTransitionError
	if errors.As(err, &ite) {
		return ite, true
	}
	return nil, false
}

// ConflictError reports a temporary clash with a concurrent operation; the
// caller may retry.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// IsBusinessError reports whether err is a rule violation that retrying
// cannot fix.
func IsBusinessError(err error) bool {
	if _, ok := IsInvalidArgumentError(err); ok {
		return true
	}
	if _, ok := IsPreconditionFailedError(err); ok {
		return true
	}
	if _, ok := IsInvalidTransitionError(err); ok {
		return true
	}
	_, ok := IsValidationError(err)
	return ok
}
