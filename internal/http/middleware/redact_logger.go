package middleware

import (
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[REDACTED]"

// alwaysMasked are header names whose values are never logged.
var alwaysMasked = []string{"Authorization", "Cookie", "Set-Cookie", "Proxy-Authorization"}

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are extra header names logged as "[REDACTED]", matched
	// case-insensitively.
	MaskHeaders []string
}

// scrubRule replaces every match of re with a fixed marker.
type scrubRule struct {
	re   *regexp.Regexp
	repl string
}

// Rules run in order. UUIDs go before phone numbers so their digit groups
// are not taken for one.
var scrubRules = []scrubRule{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// scrubber removes personal data from values that end up in access logs.
// Member emails are the main concern: they travel in bodies, which are never
// logged, but clients also put them in query strings and custom headers.
type scrubber struct {
	masked map[string]struct{} // canonical header keys
}

func newScrubber(extra []string) *scrubber {
	s := &scrubber{masked: make(map[string]struct{}, len(alwaysMasked)+len(extra))}
	for _, h := range append(append([]string{}, alwaysMasked...), extra...) {
		if h = strings.TrimSpace(h); h != "" {
			s.masked[http.CanonicalHeaderKey(h)] = struct{}{}
		}
	}
	return s
}

func (s *scrubber) text(v string) string {
	for _, r := range scrubRules {
		if v == "" {
			break
		}
		v = r.re.ReplaceAllString(v, r.repl)
	}
	return v
}

// headers renders h as a log dictionary with sorted keys.
func (s *scrubber) headers(h http.Header) *zerolog.Event {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := zerolog.Dict()
	for _, k := range keys {
		if _, ok := s.masked[http.CanonicalHeaderKey(k)]; ok {
			d.Str(k, redactedValue)
			continue
		}
		d.Str(k, s.text(strings.Join(h[k], ", ")))
	}
	return d
}

// RedactingLogger writes one access log line per request with personal data
// scrubbed from the query string and headers. Bodies are never logged.
//
// It also attaches the request-scoped logger returned by LoggerFrom, carrying
// request_id, method and path (the route template, "unmatched" otherwise).
// 5xx responses log at error level, 4xx at warn, everything else at info.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	s := newScrubber(opts.MaskHeaders)

	return func(c *gin.Context) {
		start := time.Now()
		route := routeLabel(c)

		l := log.With().
			Str("request_id", requestIDOf(c)).
			Str("method", c.Request.Method).
			Str("path", route).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		if id := c.Param("id"); id != "" {
			ev = ev.Str("member_id", id)
		}
		if IsReplay(c) {
			ev = ev.Bool("idempotent_replay", true)
		}
		ev.Str("query", s.text(truncate(c.Request.URL.RawQuery, maxQueryLogLength))).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Dict("headers", s.headers(c.Request.Header)).
			Msg("http_request")
	}
}
