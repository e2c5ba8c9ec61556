package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdesk_requests_total",
			Help: "Total number of gateway HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "graphdesk_request_duration_seconds",
			Help: "Duration of gateway HTTP requests",
		},
		[]string{"method", "route"},
	)
	backendCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdesk_backend_calls_total",
			Help: "Total number of calls forwarded to the GraphRAG backend",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(backendCallsTotal)
}

// countBackendCall records the outcome of one backend exchange.
func countBackendCall(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	backendCallsTotal.WithLabelValues(operation, status).Inc()
}

// metricsMiddleware records per-route request counts and latencies. The
// route label uses the chi pattern so draft IDs do not explode cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// metricsHandler exposes the Prometheus scrape endpoint.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
