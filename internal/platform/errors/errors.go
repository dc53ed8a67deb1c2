// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode defines supported error codes used across services
// Values are stable for wire compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for transient errors where retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is for rate limiting
	ErrorCodeTooManyRequests

	// 4-6 are retired and must not be reused
	_
	_
	_

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for validation failures (input data)
	ErrorCodeValidation

	// ErrorCodeJSON is for JSON parsing/validation errors
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// 11-12 are retired and must not be reused
	_
	_

	// ErrorCodeDataAccess is for collaborator reads that failed or timed out
	ErrorCodeDataAccess

	// ErrorCodeDataIntegrity is for well formed requests that hit malformed stored data
	ErrorCodeDataIntegrity
)

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable, ErrorCodeDataAccess:
		return http.StatusServiceUnavailable
	case ErrorCodeDataIntegrity, ErrorCodePanic, ErrorCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field mirrors the first violation; orig is the wrapped cause
type Error struct {
	orig       error
	msg        string
	code       ErrorCode
	field      string
	violations []Violation
}

// Violation is one failed input rule
type Violation struct {
	Field      string `json:"field" example:"radius_km"`
	Constraint string `json:"constraint" example:"max"`
	Message    string `json:"message" example:"radius_km must be at most 100"`
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Field      string      `json:"field,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Violations returns the failed input rules, if any
func (e *Error) Violations() []Violation { return e.violations }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Message: e.msg, Field: e.field, Violations: e.violations}
}

// WireFrom converts any error into a Wire payload with best-effort mapping
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// Invalid returns a validation error listing every violation
// the message and field mirror the first violation
func Invalid(vs ...Violation) error {
	e := &Error{code: ErrorCodeValidation, msg: "validation failed"}
	if len(vs) > 0 {
		e.msg = vs[0].Message
		e.field = vs[0].Field
		e.violations = append([]Violation(nil), vs...)
	}
	return e
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Validationf returns a validation error for a single field
func Validationf(field, constraint, format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return Invalid(Violation{Field: field, Constraint: constraint, Message: msg})
}

// DataIntegrityf returns an error for stored data that cannot be interpreted
func DataIntegrityf(format string, a ...any) error { return Newf(ErrorCodeDataIntegrity, format, a...) }

// DataAccess wraps a collaborator failure so it is never mistaken for an empty result
// errors that already carry a domain classification pass through unchanged
func DataAccess(err error, msg string) error {
	if err == nil {
		return nil
	}
	switch CodeOf(err) {
	case ErrorCodeNotFound, ErrorCodeValidation, ErrorCodeInvalidArgument,
		ErrorCodeDataIntegrity, ErrorCodeDataAccess:
		return err
	}
	return Wrap(err, ErrorCodeDataAccess, msg)
}

// Retryable reports whether err is a transient storage condition worth one more attempt
func Retryable(err error) bool { return isRetryablePG(err) }
