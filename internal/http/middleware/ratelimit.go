package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pil97/go-ticketing-backend/internal/apperr"
)

const (
	// bucketIdleTTL is how long an untouched bucket is kept.
	bucketIdleTTL = 10 * time.Minute
	// sweepInterval is the minimum time between two sweeps of idle buckets.
	sweepInterval = time.Minute
)

// errRateLimited is the cause recorded when a bucket is empty.
var errRateLimited = errors.New("rate limit exceeded")

// KeyFunc maps a request to the identity whose bucket it draws from.
type KeyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by "ip:<client ip>". ClientIP honors the
// engine's trusted proxies.
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a process-local token bucket per key. Buckets idle for
// longer than bucketIdleTTL are dropped during lookups, at most once per
// sweepInterval. It is safe for concurrent use.
type RateLimiter struct {
	limit rate.Limit
	burst int
	key   KeyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewRateLimiter refills rps tokens per second into buckets of size burst.
// A burst below 1 is raised to 1.
func NewRateLimiter(rps float64, burst int, key KeyFunc) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		key:     key,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// limiter returns the bucket for key, creating it when missing.
func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Sweep before the lookup so a stale bucket for key starts over full.
	if now.Sub(rl.lastSweep) >= sweepInterval {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= bucketIdleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// IsRateBypass reports whether IdempotencyValidator flagged the request as a
// replay, which is served without spending a token.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler records COMMON-429 with "Retry-After: 1" when the caller's bucket
// is empty. Replays pass through untouched.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || rl.limiter(rl.key(c)).AllowN(rl.now(), 1) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		_ = c.Error(apperr.New(apperr.CommonTooManyRequests).WithCause(errRateLimited))
		c.Abort()
	}
}
