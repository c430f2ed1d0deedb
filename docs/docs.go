// Package docs registers the OpenAPI document served at /swagger when
// SWAGGER_ENABLED is set. It mirrors the swag annotations on the handlers in
// internal/http/handlers; regenerate with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/members": {
            "get": {
                "description": "Returns the most recently registered members, newest first. Supports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["Members"],
                "summary": "List recent members",
                "operationId": "listMembers",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MemberListEnvelope"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}},
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}}
                }
            },
            "post": {
                "description": "Creates a member and returns it with a Location header. Supports idempotency via the Idempotency-Key header (same key → same member).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Members"],
                "summary": "Register a member",
                "operationId": "createMember",
                "parameters": [
                    {"type": "string", "description": "Idempotency key for safe retries (UUID recommended)", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Member payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.MemberEnvelope"}, "headers": {"Location": {"type": "string", "description": "URI of the created member"}, "Idempotency-Replayed": {"type": "string", "description": "true when served from a previous request"}}},
                    "400": {"description": "Validation failed or malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "409": {"description": "Duplicate email", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}}
                }
            }
        },
        "/members/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Members"],
                "summary": "Fetch a member",
                "operationId": "getMember",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Member ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MemberEnvelope"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Members"],
                "summary": "Delete a member",
                "operationId": "deleteMember",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Member ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content", "schema": {"type": "string"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}}
                }
            },
            "patch": {
                "description": "Changes the email and/or name of a member. At least one field is required.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Members"],
                "summary": "Update a member",
                "operationId": "updateMember",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Member ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateMemberRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MemberEnvelope"}},
                    "400": {"description": "Validation failed or empty update", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "409": {"description": "Duplicate email", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CreateMemberRequest": {
            "type": "object",
            "required": ["email", "name"],
            "properties": {
                "email": {"type": "string", "maxLength": 100, "example": "alice@example.com"},
                "name": {"type": "string", "maxLength": 30, "example": "Alice"}
            }
        },
        "handlers.UpdateMemberRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "maxLength": 100, "example": "alice@example.org"},
                "name": {"type": "string", "maxLength": 30, "example": "Alice B."}
            }
        },
        "handlers.MemberResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "email": {"type": "string", "example": "alice@example.com"},
                "name": {"type": "string", "example": "Alice"}
            }
        },
        "response.FieldViolation": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "email"},
                "message": {"type": "string", "example": "email is required"}
            }
        },
        "handlers.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "MEMBER-404"},
                "message": {"type": "string", "example": "Member not found"},
                "path": {"type": "string", "example": "/api/v1/members/7"},
                "timestamp": {"type": "string", "example": "2026-02-24T22:10:00.123"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/response.FieldViolation"}}
            }
        },
        "handlers.ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "data": {},
                "error": {"$ref": "#/definitions/handlers.ErrorBody"},
                "timestamp": {"type": "string", "example": "2026-02-24T22:10:00.123"}
            }
        },
        "handlers.MemberEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/handlers.MemberResponse"},
                "error": {"$ref": "#/definitions/handlers.ErrorBody"},
                "timestamp": {"type": "string", "example": "2026-02-24T22:10:00.123"}
            }
        },
        "handlers.MemberListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/handlers.MemberResponse"}},
                "error": {"$ref": "#/definitions/handlers.ErrorBody"},
                "timestamp": {"type": "string", "example": "2026-02-24T22:10:00.123"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ticketing API",
	Description:      "Member management with a uniform success/failure envelope and a stable error catalog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
