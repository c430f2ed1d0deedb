package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultHSTSMaxAge = 180 * 24 * time.Hour
	exposeHeadersKey  = "Access-Control-Expose-Headers"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS sends Strict-Transport-Security on HTTPS requests. Only set
	// it when TLS terminates at or in front of this service.
	EnableHSTS bool
	HSTSMaxAge time.Duration // 180 days when zero

	NoStore      bool // Cache-Control: no-store, plus Pragma and Expires
	EnablePolicy bool // Permissions-Policy and X-Permitted-Cross-Domain-Policies

	// ExposeHeaders are added to Access-Control-Expose-Headers, after
	// X-Request-ID when the response carries one.
	ExposeHeaders []string
}

type headerPair struct{ key, value string }

// SecurityHeaders sets hardening headers for a JSON API. The header set is
// computed once; HSTS is only sent on requests that arrived over HTTPS.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	fixed := []headerPair{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
	}
	if opt.EnablePolicy {
		fixed = append(fixed,
			headerPair{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
			headerPair{"X-Permitted-Cross-Domain-Policies", "none"},
		)
	}
	if opt.NoStore {
		fixed = append(fixed,
			headerPair{"Cache-Control", "no-store"},
			headerPair{"Pragma", "no-cache"},
			headerPair{"Expires", "0"},
		)
	}

	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, p := range fixed {
			h.Set(p.key, p.value)
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		if h.Get(requestIDHeader) != "" {
			exposeHeader(h, requestIDHeader)
		}
		for _, name := range opt.ExposeHeaders {
			exposeHeader(h, name)
		}
		c.Next()
	}
}

// exposeHeader appends name to Access-Control-Expose-Headers once.
func exposeHeader(h http.Header, name string) {
	cur := h.Get(exposeHeadersKey)
	if cur == "" {
		h.Set(exposeHeadersKey, name)
		return
	}
	for _, part := range strings.Split(cur, ",") {
		if strings.EqualFold(strings.TrimSpace(part), name) {
			return
		}
	}
	h.Set(exposeHeadersKey, cur+", "+name)
}

// isHTTPS reports whether r arrived over TLS, directly or through a proxy
// that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
