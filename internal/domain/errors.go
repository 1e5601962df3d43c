package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every fallible auth operation into a stable taxonomy.
// Adapters map kinds to transport codes; callers never see internal detail.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindInvalidCredentials
	KindAccountLocked
	KindInvalidToken
	KindConcurrentUpdate
	KindConflict
	KindInvalidInput
	KindNotFound
)

// Code returns the machine-readable code exposed to callers for this kind.
func (k ErrorKind) Code() string {
	switch k {
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindAccountLocked:
		return "ACCOUNT_LOCKED"
	case KindInvalidToken:
		return "INVALID_TOKEN"
	case KindConcurrentUpdate:
		return "CONCURRENT_UPDATE"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidInput:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

func (k ErrorKind) String() string { return k.Code() }

// Error is the single tagged error type used across the service.
// It carries a kind for dispatch, a human message, and an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two domain errors by kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// NewError builds a tagged error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError attaches a cause to a tagged error.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ErrInvalidCredentials hides whether the email or the password failed, and
// whether the account exists at all.
func ErrInvalidCredentials() *Error {
	return NewError(KindInvalidCredentials, "invalid email or password")
}

// ErrAccountLocked signals a temporary lockout after repeated failed attempts.
func ErrAccountLocked() *Error {
	return NewError(KindAccountLocked, "account temporarily locked due to repeated failed login attempts")
}

// ErrInvalidToken covers malformed, expired, revoked and unresolvable tokens.
func ErrInvalidToken(message string) *Error {
	if message == "" {
		message = "invalid or expired token"
	}
	return NewError(KindInvalidToken, message)
}

// ErrConcurrentUpdate is a retryable optimistic-versioning conflict on the
// identity record.
func ErrConcurrentUpdate(message string) *Error {
	if message == "" {
		message = "identity was modified concurrently"
	}
	return NewError(KindConcurrentUpdate, message)
}

// KindOf extracts the error kind, defaulting to KindUnexpected for anything
// that is not a tagged domain error.
func KindOf(err error) ErrorKind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnexpected
}
