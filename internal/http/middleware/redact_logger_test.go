package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs swaps the global logger for one writing JSON lines to a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// logLines decodes every JSON line in buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		out = append(out, m)
	}
	return out
}

// findLog returns the first line with the given message.
func findLog(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, m := range logLines(t, buf) {
		if m["message"] == msg {
			return m
		}
	}
	t.Fatalf("no %q log line in:\n%s", msg, buf.String())
	return nil
}

func TestScrubber_Text(t *testing.T) {
	s := newScrubber(nil)
	cases := []struct{ in, want string }{
		{"", ""},
		{"email=alice@example.com", "email=[REDACTED:email]"},
		{"key=123e4567-e89b-12d3-a456-426614174000", "key=[REDACTED:id]"},
		{"call 212-555-1212 now", "call [REDACTED:phone] now"},
		{"limit=20&sort=newest", "limit=20&sort=newest"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.text(tc.in), "input %q", tc.in)
	}
}

func TestScrubber_MasksCaseInsensitively(t *testing.T) {
	s := newScrubber([]string{" x-api-key ", ""})
	for _, h := range []string{"Authorization", "COOKIE", "set-cookie", "X-Api-Key", "proxy-authorization"} {
		_, ok := s.masked[http.CanonicalHeaderKey(h)]
		assert.True(t, ok, h)
	}
	assert.NotContains(t, s.masked, "")
}

func TestRedactingLogger_ScrubsQueryAndHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/members/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b+tag@example.com&phone=+1-555-123-4567&key=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodGet, "/members/42?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Forwarded-Email", "bob@example.org")
	req.Header.Set(requestIDHeader, "rid-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	line := findLog(t, buf, "http_request")
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "rid-42", line["request_id"])
	assert.Equal(t, "/members/:id", line["path"])
	assert.Equal(t, "42", line["member_id"])
	assert.EqualValues(t, 200, line["status"])

	query, _ := line["query"].(string)
	assert.Contains(t, query, "[REDACTED:email]")
	assert.Contains(t, query, "[REDACTED:phone]")
	assert.Contains(t, query, "[REDACTED:id]")
	assert.NotContains(t, query, "example.com")

	headers, _ := line["headers"].(map[string]any)
	require.NotNil(t, headers)
	assert.Equal(t, redactedValue, headers["Authorization"])
	assert.Equal(t, redactedValue, headers["Cookie"])
	assert.Equal(t, redactedValue, headers["X-Api-Key"])
	assert.Equal(t, "[REDACTED:email]", headers["X-Forwarded-Email"])
	assert.NotContains(t, buf.String(), "topsecret")
}

func TestRedactingLogger_LevelsFollowStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		status int
		level  string
	}{
		{http.StatusNoContent, "info"},
		{http.StatusConflict, "warn"},
		{http.StatusServiceUnavailable, "error"},
	}
	for _, tc := range cases {
		buf := captureLogs(t)
		r := gin.New()
		r.Use(RedactingLogger(RedactOptions{}))
		r.GET("/s", func(c *gin.Context) { c.Status(tc.status) })
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/s", nil))

		assert.Equal(t, tc.level, findLog(t, buf, "http_request")["level"], "status %d", tc.status)
	}
}

func TestRedactingLogger_UnmatchedRouteAndHeaderRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))

	req := httptest.NewRequest(http.MethodGet, "/members/alice@example.com/tickets", nil)
	req.Header.Set(requestIDHeader, "from-client")
	r.ServeHTTP(httptest.NewRecorder(), req)

	line := findLog(t, buf, "http_request")
	assert.Equal(t, unmatchedRoute, line["path"])
	assert.Equal(t, "from-client", line["request_id"])
	assert.Equal(t, "warn", line["level"])
	assert.NotContains(t, buf.String(), "alice@example.com")
}

func TestRedactingLogger_TruncatesLongQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/members", func(c *gin.Context) { c.Status(http.StatusOK) })

	q := "q=" + strings.Repeat("x", 3*maxQueryLogLength)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members?"+q, nil))

	query, _ := findLog(t, buf, "http_request")["query"].(string)
	assert.Equal(t, maxQueryLogLength+len("…"), len(query))
	assert.True(t, strings.HasSuffix(query, "…"))
}

func TestRedactingLogger_AttachesRequestScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.DELETE("/members/:id", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("member deleted")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/members/7", nil)
	req.Header.Set(requestIDHeader, "rid-scoped")
	r.ServeHTTP(httptest.NewRecorder(), req)

	line := findLog(t, buf, "member deleted")
	assert.Equal(t, "rid-scoped", line["request_id"])
	assert.Equal(t, "DELETE", line["method"])
	assert.Equal(t, "/members/:id", line["path"])
}

func TestRedactingLogger_MarksReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/members", func(c *gin.Context) {
		c.Set(ctxKeyIdemReplay, c.GetHeader(HeaderIdempotencyKey) == "seen")
		c.Status(http.StatusCreated)
	})

	for _, key := range []string{"seen", "fresh"} {
		req := httptest.NewRequest(http.MethodPost, "/members", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := logLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, true, lines[0]["idempotent_replay"])
	assert.NotContains(t, lines[1], "idempotent_replay")
}
