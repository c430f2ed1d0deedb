package apperr

import (
	"errors"

	"github.com/pil97/go-ticketing-backend/internal/response"
)

// Class is the translation rule an error matched.
type Class uint8

const (
	ClassValidation Class = iota
	ClassDomain
	ClassMethodNotAllowed
	ClassInternal
)

func (c Class) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassDomain:
		return "domain"
	case ClassMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Classify reports which translation rule err falls under. Rules are tried
// in order and the first match wins:
//
//  1. *ValidationError
//  2. *Failure (any tag)
//  3. *MethodNotAllowedError
//  4. anything else, nil included
//
// A nil pointer of one of these types, or a Failure without a catalog
// code, is a programming error and is classified internal.
func Classify(err error) Class {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve == nil {
			return ClassInternal
		}
		return ClassValidation
	}
	var f *Failure
	if errors.As(err, &f) {
		if !f.valid() {
			return ClassInternal
		}
		return ClassDomain
	}
	var me *MethodNotAllowedError
	if errors.As(err, &me) {
		if me == nil {
			return ClassInternal
		}
		return ClassMethodNotAllowed
	}
	return ClassInternal
}

// Resolve returns the catalog entry err translates to.
func Resolve(err error) Entry {
	switch Classify(err) {
	case ClassValidation:
		return Lookup(ValidationFailed)
	case ClassDomain:
		f, _ := AsFailure(err)
		return f.Entry()
	case ClassMethodNotAllowed:
		return Lookup(CommonMethodNotAllowed)
	default:
		return Lookup(CommonInternalError)
	}
}

// Translate converts err raised while serving path into the HTTP status and
// failure envelope sent to the client. It never fails, and for the internal
// class it never exposes err's text.
func Translate(err error, path string) (int, response.Envelope[any]) {
	class := Classify(err)
	entry := Resolve(err)

	payload := response.NewErrorPayload(entry.Code, entry.Message, path)
	switch {
	case class == ClassValidation:
		var ve *ValidationError
		errors.As(err, &ve)
		payload = response.NewErrorPayloadWithDetails(entry.Code, entry.Message, path, ve.violations)
	case entry == Lookup(ValidationFailed):
		// COMMON-001 always carries a list, even when raised without violations.
		payload = response.NewErrorPayloadWithDetails(entry.Code, entry.Message, path, nil)
	}
	return entry.Status, response.Failure[any](payload)
}
