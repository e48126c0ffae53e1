package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"research-hub/internal/handler/http/responsewriter"
	"research-hub/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpRequestsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	},
)

// MetricsMiddleware records HTTP request metrics: in-flight requests,
// duration, and status code distribution. Paths are normalized so
// unknown routes cannot explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		normalizedPath := normalizePath(r.URL.Path)

		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start).Seconds()

		status := strconv.Itoa(rw.StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, normalizedPath, status).Observe(duration)
	})
}

// normalizePath maps request paths onto the known route set. The API
// surface is small enough to enumerate.
func normalizePath(path string) string {
	switch {
	case path == "/contents/import":
		return "/contents/import"
	case path == "/health", path == "/health/ready":
		return path
	case path == "/metrics":
		return path
	case strings.HasPrefix(path, "/contents"):
		return "/contents/*"
	default:
		return "other"
	}
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
