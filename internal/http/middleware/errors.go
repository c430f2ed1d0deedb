// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements ErrorHandler, the only place that writes failure
// responses. Handlers and other middleware record failures with c.Error and
// abort; ErrorHandler translates the last recorded error into the standard
// envelope once the chain returns.
//
// Example:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "success": false,
//	  "data": null,
//	  "error": {
//	    "code": "MEMBER-404",
//	    "message": "Member not found",
//	    "path": "/members/7",
//	    "timestamp": "2026-02-24T22:10:00.123",
//	    "details": null
//	  },
//	  "timestamp": "2026-02-24T22:10:00.123"
//	}
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pil97/go-ticketing-backend/internal/apperr"
)

// ErrorHandler renders the last error recorded on the context as a failure
// envelope. Requests without recorded errors pass through untouched, and
// nothing is written when a response body already went out.
//
// Place it inside the logging and metrics middleware so they observe the
// final status, and outside every component that records errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		lg := LoggerFrom(c)

		if c.Writer.Written() {
			lg.Warn().Err(err).Msg("error recorded after response was written")
			return
		}

		status, env := apperr.Translate(err, c.Request.URL.Path)
		payload, _ := env.Err()

		ev := lg.Warn()
		if status >= http.StatusInternalServerError {
			ev = lg.Error()
		}
		ev.Err(err).
			Int("status", status).
			Str("code", payload.Code()).
			Str("class", apperr.Classify(err).String()).
			Msg("api error")

		defaultMetrics.observeFailure(payload.Code(), status)
		c.AbortWithStatusJSON(status, env)
	}
}
