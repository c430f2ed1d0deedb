// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by all endpoints. Successful
// results are wrapped in the standard envelope; failures are never written
// here. fail() records the error on the Gin context and aborts, and the
// ErrorHandler middleware renders it.
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{
//	  "success": true,
//	  "data": { "id": 1, "email": "a@test.com", "name": "Alice" },
//	  "error": null,
//	  "timestamp": "2026-02-24T22:10:00.123"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pil97/go-ticketing-backend/internal/response"
)

// ErrorBody documents the "error" member of a failure envelope for OpenAPI.
type ErrorBody struct {
	Code      string                    `json:"code" example:"MEMBER-404"`
	Message   string                    `json:"message" example:"Member not found"`
	Path      string                    `json:"path" example:"/api/v1/members/7"`
	Timestamp string                    `json:"timestamp" example:"2026-02-24T22:10:00.123"`
	Details   []response.FieldViolation `json:"details"`
}

// ErrorEnvelope documents a failure response for OpenAPI.
type ErrorEnvelope struct {
	Success   bool      `json:"success" example:"false"`
	Data      any       `json:"data"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp" example:"2026-02-24T22:10:00.123"`
}

// MemberEnvelope documents a response carrying one member.
type MemberEnvelope struct {
	Success   bool           `json:"success" example:"true"`
	Data      MemberResponse `json:"data"`
	Error     *ErrorBody     `json:"error"`
	Timestamp string         `json:"timestamp" example:"2026-02-24T22:10:00.123"`
}

// MemberListEnvelope documents a response carrying a list of members.
type MemberListEnvelope struct {
	Success   bool             `json:"success" example:"true"`
	Data      []MemberResponse `json:"data"`
	Error     *ErrorBody       `json:"error"`
	Timestamp string           `json:"timestamp" example:"2026-02-24T22:10:00.123"`
}

// StatusEnvelope documents a health response.
type StatusEnvelope struct {
	Success   bool       `json:"success" example:"true"`
	Data      string     `json:"data" example:"ok"`
	Error     *ErrorBody `json:"error"`
	Timestamp string     `json:"timestamp" example:"2026-02-24T22:10:00.123"`
}

// fail records err for the ErrorHandler middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Fail is the exported variant of fail() for use outside this package,
// e.g. router-level fallbacks.
func Fail(c *gin.Context, err error) { fail(c, err) }

// ok writes data inside a success envelope with the given status.
func ok[T any](c *gin.Context, status int, data T) {
	c.JSON(status, response.Success(data))
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
