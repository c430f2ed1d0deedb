package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsNamespace prefixes every collector exported by this package.
const metricsNamespace = "ticketing"

// unmatchedRoute is the route label for requests no route matched. Raw URL
// paths are never used as label values.
const unmatchedRoute = "unmatched"

// httpMetrics groups the collectors observed by Metrics and ErrorHandler.
type httpMetrics struct {
	requests *prometheus.CounterVec   // method, route, status
	duration *prometheus.HistogramVec // method, route
	inflight prometheus.Gauge
	size     *prometheus.HistogramVec // method, route
	failures *prometheus.CounterVec   // code, status
}

// newHTTPMetrics creates the collectors and registers them with reg.
func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		size: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Size of HTTP response bodies.",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 8), // 128B..2MiB
		}, []string{"method", "route"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "api_errors_total",
			Help:      "Failure envelopes written, by catalog code and status.",
		}, []string{"code", "status"}),
	}
}

// defaultMetrics is registered with the process-wide registry served at /metrics.
var defaultMetrics = newHTTPMetrics(prometheus.DefaultRegisterer)

// Metrics returns middleware that records request count, latency, size and
// concurrency into the default registry. Failure envelopes are counted
// separately by ErrorHandler.
func Metrics() gin.HandlerFunc {
	return defaultMetrics.handler()
}

func (m *httpMetrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inflight.Inc()
		defer m.inflight.Dec()
		start := time.Now()

		c.Next()

		route := routeLabel(c)
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n >= 0 {
			m.size.WithLabelValues(method, route).Observe(float64(n))
		}
	}
}

// observeFailure counts one failure envelope.
func (m *httpMetrics) observeFailure(code string, status int) {
	m.failures.WithLabelValues(code, strconv.Itoa(status)).Inc()
}

func routeLabel(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return unmatchedRoute
}
