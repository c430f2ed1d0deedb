// Package services holds the member business logic and its failures.
// Failures are classified apperr values that the HTTP layer passes to the
// error handler unchanged.
package services

import "github.com/pil97/go-ticketing-backend/internal/apperr"

// Member-related failures.
var (
	// ErrMemberNotFound indicates that the requested member does not exist.
	ErrMemberNotFound = apperr.NotFound(apperr.MemberNotFound)

	// ErrDuplicateEmail is returned when another member already uses the email.
	ErrDuplicateEmail = apperr.New(apperr.MemberDuplicateEmail)

	// ErrEmptyUpdate is returned when an update carries no field to change.
	ErrEmptyUpdate = apperr.New(apperr.CommonInvalidRequest)
)
