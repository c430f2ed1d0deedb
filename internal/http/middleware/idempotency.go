package middleware

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pil97/go-ticketing-backend/internal/apperr"
)

// HeaderIdempotencyKey carries the client's retry key on unsafe requests.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"

	defaultIdemKeyMaxLen = 200
)

var (
	defaultIdemKeyPattern    = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	errInvalidIdempotencyKey = errors.New("invalid Idempotency-Key")
)

// GetIdempotencyKey returns the key accepted by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	k := c.GetString(ctxKeyIdemKey)
	return k, k != ""
}

// IsReplay reports whether a live record already exists for this request's
// key, meaning the handler will return the earlier result.
func IsReplay(c *gin.Context) bool { return c.GetBool(ctxKeyIdemReplay) }

// IdempotencyOptions tunes IdempotencyValidator. The zero value accepts keys
// of up to 200 token characters and scopes them by method and route.
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
	Scope   func(*gin.Context) string
}

// IdempotencyLookup reports whether a live record exists for (scope, key) at
// now. Errors are treated as "not found" by the middleware.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (bool, error)

// IdempotencyValidator checks the Idempotency-Key header. Requests without
// the header pass through untouched. A malformed key aborts with
// COMMON-003. For POST, a key that lookup already knows marks the request as
// a replay and exempts it from rate limiting; serving the replay is left to
// the handler.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdemKeyMaxLen
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = defaultIdemKeyPattern
	}
	scopeOf := opts.Scope
	if scopeOf == nil {
		scopeOf = RouteScope("")
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pattern.MatchString(key) {
			_ = c.Error(apperr.New(apperr.CommonInvalidRequest).WithCause(errInvalidIdempotencyKey))
			c.Abort()
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil && c.Request.Method == http.MethodPost {
			found, err := lookup(c.Request.Context(), scopeOf(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if found {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// RouteScope names a request "<METHOD> <route>", where route is the matched
// pattern with basePath removed, e.g. "POST /members" under "/api/v1".
// Unmatched requests fall back to the raw path.
func RouteScope(basePath string) func(*gin.Context) string {
	if basePath == "/" {
		basePath = ""
	}
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if basePath != "" {
			route = strings.TrimPrefix(route, basePath)
		}
		return c.Request.Method + " " + route
	}
}
