package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey      = "requestID"
	requestIDHeader   = "X-Request-ID"
	loggerKey         = "logger"
	maxQueryLogLength = 2048
)

// validRequestID limits propagated correlation IDs to short tokens that are
// safe to echo in headers and logs.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID propagates the caller's X-Request-ID, or generates a UUIDv4 when
// the header is missing or not a plain token. The ID is echoed in the
// response header and stored on the context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// requestIDOf returns the correlation ID set by RequestID, falling back to
// the response and then the request header when RequestID is not installed.
func requestIDOf(c *gin.Context) string {
	if rid := c.GetString(requestIDKey); rid != "" {
		return rid
	}
	if rid := c.Writer.Header().Get(requestIDHeader); rid != "" {
		return rid
	}
	return c.GetHeader(requestIDHeader)
}

// Recovery turns a panic into a recorded error so that ErrorHandler answers
// with COMMON-500. The panic value and stack only go to the log.
// http.ErrAbortHandler is re-raised so the connection is dropped as usual.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// The server aborts the connection silently for this value.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			_ = c.Error(fmt.Errorf("panic: %v", rec))
			if !c.Writer.Written() {
				c.Status(http.StatusInternalServerError)
			}
			c.Abort()
		}()
		c.Next()
	}
}

// LoggerFrom returns the logger attached by RedactingLogger, or the global
// logger when none is attached. It never returns nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if lg, ok := c.Value(loggerKey).(*zerolog.Logger); ok {
		return lg
	}
	l := log.Logger
	return &l
}

// truncate cuts s to max bytes and appends an ellipsis. max <= 0 keeps s.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
