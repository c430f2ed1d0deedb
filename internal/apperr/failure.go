package apperr

import (
	"errors"
	"fmt"

	"github.com/pil97/go-ticketing-backend/internal/response"
)

// Tag distinguishes the variants of a classified failure.
type Tag uint8

const (
	// TagDomain marks a business-rule violation.
	TagDomain Tag = iota
	// TagNotFound marks a lookup of an entity that does not exist. The
	// translator currently renders it exactly like TagDomain.
	TagNotFound
)

// Failure is a classified error: it carries the catalog code chosen by the
// code that raised it, all the way to the translator.
//
// Failure values are immutable; WithCause returns a copy. Package-level
// sentinels built with New or NotFound are therefore safe to share and to
// compare with errors.Is.
type Failure struct {
	code  Code
	tag   Tag
	cause error
}

// New returns a domain failure for code.
func New(code Code) *Failure {
	_ = Lookup(code)
	return &Failure{code: code, tag: TagDomain}
}

// NotFound returns a failure for code tagged as a missing entity.
func NotFound(code Code) *Failure {
	_ = Lookup(code)
	return &Failure{code: code, tag: TagNotFound}
}

// Code returns the catalog code carried by f.
func (f *Failure) Code() Code { return f.code }

// Entry returns the catalog entry carried by f. A nil or zero Failure was
// never built by New or NotFound and reports COMMON_INTERNAL_ERROR.
func (f *Failure) Entry() Entry {
	if !f.valid() {
		return Lookup(CommonInternalError)
	}
	return Lookup(f.code)
}

func (f *Failure) valid() bool { return f != nil && f.code != codeUnset && f.code < numCodes }

// Tag returns the variant of f.
func (f *Failure) Tag() Tag { return f.tag }

// IsNotFound reports whether f was raised with NotFound.
func (f *Failure) IsNotFound() bool { return f.tag == TagNotFound }

// WithCause returns a copy of f that wraps cause. The cause is only ever
// logged; it never reaches the client.
func (f *Failure) WithCause(cause error) *Failure {
	cp := *f
	cp.cause = cause
	return &cp
}

// Error returns "<code>: <message>" plus the cause when present.
func (f *Failure) Error() string {
	e := f.Entry()
	if f != nil && f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, f.cause)
	}
	return e.Code + ": " + e.Message
}

// Unwrap returns the underlying cause, if any.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.cause
}

// Is matches another *Failure with the same code and tag, so a copy made by
// WithCause still satisfies errors.Is against its sentinel.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok || f == nil || t == nil {
		return false
	}
	return t.code == f.code && t.tag == f.tag
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// ValidationError reports per-field input violations, in the order the
// validator produced them.
type ValidationError struct {
	violations []response.FieldViolation
}

// NewValidationError copies violations into a new ValidationError.
func NewValidationError(violations []response.FieldViolation) *ValidationError {
	cp := make([]response.FieldViolation, len(violations))
	copy(cp, violations)
	return &ValidationError{violations: cp}
}

// Violations returns a copy of the reported violations.
func (e *ValidationError) Violations() []response.FieldViolation {
	if e == nil {
		return []response.FieldViolation{}
	}
	cp := make([]response.FieldViolation, len(e.violations))
	copy(cp, e.violations)
	return cp
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.violations) == 0 {
		return "validation failed"
	}
	v := e.violations[0]
	if len(e.violations) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", v.Field, v.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (and %d more)", v.Field, v.Message, len(e.violations)-1)
}

// MethodNotAllowedError signals that a route matched the path but not the
// request method.
type MethodNotAllowedError struct {
	Method string
	Path   string
}

func (e *MethodNotAllowedError) Error() string {
	if e == nil {
		return "method not allowed"
	}
	return fmt.Sprintf("method %s not allowed on %s", e.Method, e.Path)
}
