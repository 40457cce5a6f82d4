// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

const namespace = "chaos_dashboard"

// Metrics bundles prometheus collectors for HTTP traffic and simulator state.
// It implements port.MetricsPublisher.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	RateLimitDropped   prometheus.Counter

	SystemStatus      *prometheus.GaugeVec
	ActivePods        prometheus.Gauge
	TotalPods         prometheus.Gauge
	AverageLatencyMs  prometheus.Gauge
	SimulationRunning prometheus.Gauge
	TransitionsTotal  *prometheus.CounterVec
	RecoverySeconds   prometheus.Histogram
}

// New creates the collectors and registers them in registry.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_dropped_total",
			Help:      "Total number of requests dropped by the rate limiter.",
		}),
		SystemStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_status",
			Help:      "Current system status (1 for the active status).",
		}, []string{"status"}),
		ActivePods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_pods",
			Help:      "Number of running pods.",
		}),
		TotalPods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_pods",
			Help:      "Number of pods in the roster.",
		}),
		AverageLatencyMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_latency_milliseconds",
			Help:      "Synthetic average latency in milliseconds.",
		}),
		SimulationRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_running",
			Help:      "1 while a chaos simulation is in flight.",
		}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Applied simulator transitions by command.",
		}, []string{"transition"}),
		RecoverySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recovery_duration_seconds",
			Help:      "Measured incident recovery duration.",
			Buckets:   []float64{1, 2, 4, 8, 15, 30, 60},
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.RateLimitDropped,
		m.SystemStatus,
		m.ActivePods,
		m.TotalPods,
		m.AverageLatencyMs,
		m.SimulationRunning,
		m.TransitionsTotal,
		m.RecoverySeconds,
	)

	return m
}

// RegisterClientGauge exposes the live WebSocket client count.
func RegisterClientGauge(registry prometheus.Registerer, count func() int) {
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of connected WebSocket clients.",
	}, func() float64 {
		return float64(count())
	}))
}

// PublishBatch records each sample in order.
func (m *Metrics) PublishBatch(ctx context.Context, samples []port.StateSample) error {
	for _, sample := range samples {
		if err := m.PublishSingle(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}

// PublishSingle updates the simulator gauges from one sample.
func (m *Metrics) PublishSingle(_ context.Context, sample port.StateSample) error {
	for _, status := range []valueobject.SystemStatus{
		valueobject.StatusHealthy,
		valueobject.StatusCrashDetected,
		valueobject.StatusRecovering,
	} {
		value := 0.0
		if status.String() == sample.SystemStatus {
			value = 1
		}
		m.SystemStatus.WithLabelValues(status.String()).Set(value)
	}

	m.ActivePods.Set(float64(sample.ActivePods))
	m.TotalPods.Set(float64(sample.TotalPods))
	m.AverageLatencyMs.Set(sample.AverageLatencyMs)
	if sample.SimulationRunning {
		m.SimulationRunning.Set(1)
	} else {
		m.SimulationRunning.Set(0)
	}

	if sample.Transition != "" {
		m.TransitionsTotal.WithLabelValues(sample.Transition).Inc()
	}
	if sample.RecoverySeconds > 0 {
		m.RecoverySeconds.Observe(float64(sample.RecoverySeconds))
	}

	return nil
}

// Flush is a no-op: Prometheus pulls the current values.
func (m *Metrics) Flush(context.Context) error {
	return nil
}

// Middleware records request counts and latency per normalized route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
		if wrapped.statusCode == http.StatusTooManyRequests {
			m.RateLimitDropped.Inc()
		}
	})
}

// normalizeRoute keeps label cardinality bounded.
func normalizeRoute(path string) string {
	switch path {
	case "/", "/logs", "/charts", "/charts/trigger",
		"/api/v1/state", "/api/v1/events", "/api/v1/simulation/trigger",
		"/ws", "/metrics", "/healthz", "/readyz":
		return path
	}
	switch {
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	case strings.HasPrefix(path, "/api/"):
		return "/api/*"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Flush keeps streaming behavior for handlers that require it.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
