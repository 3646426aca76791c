// Package metrics exposes Prometheus collectors for HTTP traffic, outbound
// calls and database pings, plus the /metrics handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by method, chi route pattern and status.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymapi", Name: "http_requests_total", Help: "Served HTTP requests",
	}, []string{"method", "route", "status"})
	// HTTPDuration observes request latency by method and route.
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymapi", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	// DependencyCalls counts outbound calls by service and outcome.
	DependencyCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymapi", Name: "dependency_calls_total", Help: "Outbound calls to external services",
	}, []string{"service", "outcome"})
	// DependencyDuration observes outbound call latency by service.
	DependencyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymapi", Name: "dependency_call_seconds", Help: "Outbound call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})
	// DBPing observes /healthz database ping latency.
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gymapi", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, DependencyCalls, DependencyDuration, DBPing)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }

// ObserveDBPing records one successful database ping.
func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveDependency records one outbound call. outcome is "ok" or the
// failure class ("transport", "status", "decode").
func ObserveDependency(service, outcome string, d time.Duration) {
	DependencyCalls.WithLabelValues(service, outcome).Inc()
	DependencyDuration.WithLabelValues(service).Observe(d.Seconds())
}

// Middleware counts requests by chi route pattern, so /get_aluno?cpf=1 and
// /get_aluno?cpf=2 share one series.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		t0 := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(t0).Seconds())
	})
}
