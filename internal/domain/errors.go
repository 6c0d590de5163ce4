package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed enumeration of failure categories this service can
// surface. Handlers map kinds to HTTP status codes at the boundary; nothing
// below the HTTP layer knows about status codes.
type Kind string

const (
	// KindValidation covers malformed or missing input.
	KindValidation Kind = "validation_failed"

	// KindDuplicate covers email/username uniqueness collisions.
	KindDuplicate Kind = "duplicate_credential"

	// KindInvalidCredentials is deliberately non-specific: unknown identifier,
	// wrong password, and inactive account all surface identically so account
	// existence is not leaked.
	KindInvalidCredentials Kind = "invalid_credentials"

	// KindUnauthenticated covers a missing bearer token.
	KindUnauthenticated Kind = "unauthenticated"

	// KindSessionInvalid covers unknown or expired session tokens.
	KindSessionInvalid Kind = "session_invalid"

	// KindConfiguration covers fatal server misconfiguration, e.g. a missing
	// signing secret. Requests must abort rather than degrade.
	KindConfiguration Kind = "configuration_error"

	// KindStore covers any underlying persistence failure.
	KindStore Kind = "store_unavailable"
)

// Error carries a machine-readable kind plus human-readable detail. Field
// names the offending input field where one exists (validation, duplicates).
type Error struct {
	Kind   Kind
	Detail string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// E constructs a plain domain error.
func E(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// FieldError constructs a domain error tied to a named input field.
func FieldError(kind Kind, field, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Field: field}
}

// WrapError wraps an underlying error with a kind and detail.
func WrapError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the Kind from err, or KindStore when err carries none.
// Unclassified errors reaching the boundary are treated as internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStore
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
