// Package apperr is the error taxonomy of the API: a closed catalog of error
// codes, the classified Failure values services return, and the translator
// that turns any error into the standard response envelope.
//
// The catalog is a fixed table. There is no way to register codes at runtime;
// adding a code means adding a constant and a row below.
//
// Example wire shape produced from a catalog entry:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "success": false,
//	  "data": null,
//	  "error": {
//	    "code": "MEMBER-409",
//	    "message": "Duplicate email",
//	    "path": "/members",
//	    "timestamp": "2026-02-24T22:10:00.123",
//	    "details": null
//	  },
//	  "timestamp": "2026-02-24T22:10:00.123"
//	}
package apperr

import (
	"fmt"
	"net/http"
)

// Code names one entry of the error catalog.
type Code uint8

// Catalog codes. Clients branch on Entry.Code, never on the status or message.
const (
	// codeUnset is the zero Code. It has no catalog row, so a zero Failure
	// cannot pass for a real entry.
	codeUnset Code = iota

	ValidationFailed
	InvalidRequestBody
	CommonInvalidRequest
	CommonNotFound
	CommonMethodNotAllowed
	CommonInternalError
	MemberNotFound
	MemberDuplicateEmail
	CommonTooManyRequests

	numCodes
)

// Entry binds a catalog code to its HTTP status, stable machine-readable
// code string and default message.
type Entry struct {
	Status  int
	Code    string
	Message string
}

var catalog = [numCodes]struct {
	name  string
	entry Entry
}{
	ValidationFailed:       {"VALIDATION_FAILED", Entry{http.StatusBadRequest, "COMMON-001", "Validation failed"}},
	InvalidRequestBody:     {"INVALID_REQUEST_BODY", Entry{http.StatusBadRequest, "COMMON-002", "Invalid request body"}},
	CommonInvalidRequest:   {"COMMON_INVALID_REQUEST", Entry{http.StatusBadRequest, "COMMON-003", "Invalid request"}},
	CommonNotFound:         {"COMMON_NOT_FOUND", Entry{http.StatusNotFound, "COMMON-404", "Resource not found"}},
	CommonMethodNotAllowed: {"COMMON_METHOD_NOT_ALLOWED", Entry{http.StatusMethodNotAllowed, "COMMON-405", "Method not allowed"}},
	CommonInternalError:    {"COMMON_INTERNAL_ERROR", Entry{http.StatusInternalServerError, "COMMON-500", "Internal server error"}},
	MemberNotFound:         {"MEMBER_NOT_FOUND", Entry{http.StatusNotFound, "MEMBER-404", "Member not found"}},
	MemberDuplicateEmail:   {"MEMBER_DUPLICATE_EMAIL", Entry{http.StatusConflict, "MEMBER-409", "Duplicate email"}},
	CommonTooManyRequests:  {"COMMON_TOO_MANY_REQUESTS", Entry{http.StatusTooManyRequests, "COMMON-429", "Too many requests"}},
}

// Lookup returns the catalog entry for c.
//
// Every Code constant has an entry; passing anything else is a programming
// error and panics.
func Lookup(c Code) Entry {
	if c == codeUnset || c >= numCodes {
		panic(fmt.Sprintf("apperr: unknown code %d", uint8(c)))
	}
	return catalog[c].entry
}

// String returns the catalog name of c, e.g. "MEMBER_NOT_FOUND".
func (c Code) String() string {
	if c == codeUnset || c >= numCodes {
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
	return catalog[c].name
}

// Codes returns every catalog code in table order.
func Codes() []Code {
	out := make([]Code, 0, numCodes)
	for c := codeUnset + 1; c < numCodes; c++ {
		out = append(out, c)
	}
	return out
}
