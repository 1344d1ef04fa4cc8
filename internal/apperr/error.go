package apperr

import (
	"errors"
	"fmt"
)

// Error is an immutable value describing one failure. Two Errors are equal
// when their kind and detail are equal.
type Error struct {
	kind   Kind
	detail string
}

// Prebuilt values for kinds without detail.
var (
	ErrUnauthenticated              = Error{kind: KindUnauthenticated}
	ErrUnauthorized                 = Error{kind: KindUnauthorized}
	ErrCredentialsInvalid           = Error{kind: KindCredentialsInvalid}
	ErrHandleAlreadyExists          = Error{kind: KindHandleAlreadyExists}
	ErrTokenMalformed               = Error{kind: KindTokenMalformed}
	ErrTokenExpired                 = Error{kind: KindTokenExpired}
	ErrTokenInvalid                 = Error{kind: KindTokenInvalid}
	ErrProtocolInitInvalidShape     = Error{kind: KindProtocolInitInvalidShape}
	ErrProtocolInitTokenInvalidType = Error{kind: KindProtocolInitTokenInvalidType}
	ErrNotImplemented               = Error{kind: KindNotImplemented}
	ErrRequestMalformed             = Error{kind: KindRequestMalformed}

	// ErrServerMisconfigured and ErrInternal match any error of their kind
	// under errors.Is, whatever the detail.
	ErrServerMisconfigured = Error{kind: KindServerMisconfigured}
	ErrInternal            = Error{kind: KindInternalError}
)

// Misconfigured reports broken deployment state (key material, datastore).
func Misconfigured(detail string) Error {
	return Error{kind: KindServerMisconfigured, detail: detail}
}

// Internal reports an unclassified failure.
func Internal(detail string) Error {
	return Error{kind: KindInternalError, detail: detail}
}

// Misconfiguredf is Misconfigured with fmt formatting.
func Misconfiguredf(format string, args ...any) Error {
	return Misconfigured(fmt.Sprintf(format, args...))
}

// New returns the error value for k. Detail-carrying kinds get an empty detail.
func New(k Kind) Error {
	return Error{kind: k}
}

// Error returns the client-safe message template. The detail is never part
// of it.
func (e Error) Error() string {
	return e.kind.Message()
}

// Kind returns the variant tag.
func (e Error) Kind() Kind { return e.kind }

// Code returns the bare variant name.
func (e Error) Code() string { return e.kind.String() }

// Detail returns operator-only context. It must only reach logs.
func (e Error) Detail() string { return e.detail }

// Is matches errors of the same kind. A target with a detail additionally
// requires the same detail.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	if t.kind != e.kind {
		return false
	}
	return t.detail == "" || t.detail == e.detail
}

// FromText folds an ad-hoc failure message into InternalError.
func FromText(msg string) Error {
	return Internal(msg)
}

// FromError folds any error into InternalError carrying its text. It returns
// nil for a nil error.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	return Internal(err.Error())
}

// As extracts an Error from err's chain.
func As(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return Error{}, false
}

// Classify returns the Error already present in err's chain, or folds err
// into InternalError. It returns the zero Error and false for nil.
func Classify(err error) (Error, bool) {
	if err == nil {
		return Error{}, false
	}
	if e, ok := As(err); ok {
		return e, true
	}
	return Internal(err.Error()), true
}
