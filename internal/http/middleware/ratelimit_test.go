package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClockedLimiter(rps float64, burst int) (*RateLimiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rps, burst, KeyByClientIP())
	rl.now = clk.now
	return rl, clk
}

func newLimitedRouter(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(pre...)
	r.Use(rl.Handler())
	r.POST("/members", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func postFrom(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/members", nil)
	req.RemoteAddr = net.JoinHostPort(ip, "40000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestKeyByClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	assert.Equal(t, "ip:203.0.113.9", KeyByClientIP()(c))
}

func TestNewRateLimiter_RaisesBurst(t *testing.T) {
	for _, b := range []int{-3, 0} {
		assert.Equal(t, 1, NewRateLimiter(1, b, KeyByClientIP()).burst)
	}
	assert.Equal(t, 4, NewRateLimiter(1, 4, KeyByClientIP()).burst)
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	rl, clk := newClockedLimiter(1, 2)
	r := newLimitedRouter(rl)

	assert.Equal(t, http.StatusCreated, postFrom(r, "198.51.100.1").Code)
	assert.Equal(t, http.StatusCreated, postFrom(r, "198.51.100.1").Code)

	w := postFrom(r, "198.51.100.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "COMMON-429", env.Error.Code)
	assert.Equal(t, "Too many requests", env.Error.Message)
	assert.Equal(t, "/members", env.Error.Path)

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusCreated, postFrom(r, "198.51.100.2").Code)

	clk.advance(time.Second)
	assert.Equal(t, http.StatusCreated, postFrom(r, "198.51.100.1").Code)
}

func TestRateLimiter_ReplayBypass(t *testing.T) {
	rl, _ := newClockedLimiter(1, 1)
	markReplay := func(c *gin.Context) {
		if c.GetHeader(HeaderIdempotencyKey) == "seen" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
	r := newLimitedRouter(rl, markReplay)

	assert.Equal(t, http.StatusCreated, postFrom(r, "192.0.2.5").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "192.0.2.5").Code)

	req := httptest.NewRequest(http.MethodPost, "/members", nil)
	req.RemoteAddr = net.JoinHostPort("192.0.2.5", "40000")
	req.Header.Set(HeaderIdempotencyKey, "seen")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl, clk := newClockedLimiter(1, 1)

	first := rl.limiter("ip:a")
	assert.Same(t, first, rl.limiter("ip:a"), "bucket reused")

	clk.advance(bucketIdleTTL / 2)
	rl.limiter("ip:b")

	clk.advance(bucketIdleTTL / 2)
	rl.limiter("ip:c")

	rl.mu.Lock()
	_, hasA := rl.buckets["ip:a"]
	_, hasB := rl.buckets["ip:b"]
	_, hasC := rl.buckets["ip:c"]
	rl.mu.Unlock()
	assert.False(t, hasA, "idle for a full TTL")
	assert.True(t, hasB)
	assert.True(t, hasC)
}

func TestRateLimiter_SweepIsThrottled(t *testing.T) {
	rl, clk := newClockedLimiter(1, 1)
	rl.limiter("ip:x") // first lookup sweeps and stamps lastSeen

	rl.mu.Lock()
	rl.buckets["ip:stale"] = &bucket{lim: nil, lastSeen: clk.now().Add(-time.Hour)}
	rl.mu.Unlock()

	clk.advance(sweepInterval / 2)
	rl.limiter("ip:x")
	rl.mu.Lock()
	_, kept := rl.buckets["ip:stale"]
	rl.mu.Unlock()
	assert.True(t, kept, "no sweep within the interval")

	clk.advance(sweepInterval)
	rl.limiter("ip:x")
	rl.mu.Lock()
	_, kept = rl.buckets["ip:stale"]
	rl.mu.Unlock()
	assert.False(t, kept)
}

func TestIsRateBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.False(t, IsRateBypass(c))
	c.Set(ctxKeyRateBypass, "yes")
	assert.False(t, IsRateBypass(c), "non-bool values read as false")
	c.Set(ctxKeyRateBypass, true)
	assert.True(t, IsRateBypass(c))
}
