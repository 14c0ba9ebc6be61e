// Package metrics exposes service use-case telemetry to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/programhub/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "programhub"

// Metrics holds the collectors fed by service use cases and the HTTP server.
type Metrics struct {
	UseCasesTotal   *prometheus.CounterVec
	UseCaseDuration *prometheus.HistogramVec
	SnapshotPoints  *prometheus.GaugeVec
	ProgramPoints   *prometheus.GaugeVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg gets a
// fresh registry so repeated calls never collide.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{gatherer: reg}

	m.UseCasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_cases_total",
			Help:      "Service use cases executed, by outcome.",
		},
		[]string{"use_case", "outcome"},
	)

	m.UseCaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Duration of service use cases in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"use_case"},
	)

	m.SnapshotPoints = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_points",
			Help:      "Points recorded by the most recent burn snapshot of each program.",
		},
		[]string{"program_id", "kind"},
	)

	m.ProgramPoints = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "program_points",
			Help:      "Live points of each program from its latest status rollup, by kind.",
		},
		[]string{"program_id", "kind"},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	reg.MustRegister(
		m.UseCasesTotal,
		m.UseCaseDuration,
		m.SnapshotPoints,
		m.ProgramPoints,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// ObserveUseCase implements service.UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	outcome := "success"
	if !event.Success {
		outcome = "error"
	}
	m.UseCasesTotal.WithLabelValues(event.Name, outcome).Inc()
	m.UseCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	if !event.Success {
		return
	}
	programID, _ := event.Fields["program_id"].(string)
	switch event.Name {
	case "save-snapshot":
		setGauge(m.SnapshotPoints, programID, "total", event.Fields["total_points"])
		setGauge(m.SnapshotPoints, programID, "completed", event.Fields["completed_points"])
	case "status":
		// Owner-filtered views are partial and would overwrite program totals.
		if _, filtered := event.Fields["owner_id"]; filtered {
			return
		}
		setGauge(m.ProgramPoints, programID, "total", event.Fields["total_points"])
		setGauge(m.ProgramPoints, programID, "completed", event.Fields["completed_points"])
		setGauge(m.ProgramPoints, programID, "progress_total", event.Fields["progress_total"])
		setGauge(m.ProgramPoints, programID, "progress_completed", event.Fields["progress_completed"])
	}
}

func setGauge(g *prometheus.GaugeVec, programID, kind string, v any) {
	switch n := v.(type) {
	case int:
		g.WithLabelValues(programID, kind).Set(float64(n))
	case float64:
		g.WithLabelValues(programID, kind).Set(n)
	}
}

// RequestTrackingMiddleware records count and latency for every request.
func (m *Metrics) RequestTrackingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// NewMux serves /metrics and a /healthz liveness check, both tracked.
func (m *Metrics) NewMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return m.RequestTrackingMiddleware(mux)
}
