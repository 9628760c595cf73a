package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	submissionsTotal  *prometheus.CounterVec
	rateLimitedTotal  *prometheus.CounterVec
	templateOpsTotal  *prometheus.CounterVec
	adminActionsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tis",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tis",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "inquiry",
			Name:      "submissions_total",
			Help:      "Total accepted inquiry submissions.",
		},
		[]string{"service"},
	)
	rateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter.",
		},
		[]string{"service", "path"},
	)
	templateOpsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "template",
			Name:      "operations_total",
			Help:      "Total template management operations.",
		},
		[]string{"service", "operation"},
	)
	adminActionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "admin",
			Name:      "actions_total",
			Help:      "Total admin actions on inquiries.",
		},
		[]string{"service", "action"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		submissionsTotal,
		rateLimitedTotal,
		templateOpsTotal,
		adminActionsTotal,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		submissionsTotal:  submissionsTotal,
		rateLimitedTotal:  rateLimitedTotal,
		templateOpsTotal:  templateOpsTotal,
		adminActionsTotal: adminActionsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func (m *HTTPServerMetrics) RecordSubmission(service string) {
	m.submissionsTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordRateLimited(service, path string) {
	m.rateLimitedTotal.WithLabelValues(service, normalizePath(path)).Inc()
}

func (m *HTTPServerMetrics) RecordTemplateOperation(service, operation string) {
	if operation == "" {
		operation = "unknown"
	}
	m.templateOpsTotal.WithLabelValues(service, operation).Inc()
}

func (m *HTTPServerMetrics) RecordAdminAction(service, action string) {
	if action == "" {
		action = "unknown"
	}
	m.adminActionsTotal.WithLabelValues(service, action).Inc()
}

// normalizePath collapses IDs so the path label stays low-cardinality.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/inquiries/") && strings.HasSuffix(path, "/process"):
		return "/v1/inquiries/{inquiry_id}/process"
	case strings.HasPrefix(path, "/v1/inquiries/") && strings.HasSuffix(path, "/reprocess"):
		return "/v1/inquiries/{inquiry_id}/reprocess"
	case strings.HasPrefix(path, "/v1/inquiries/") && strings.HasSuffix(path, "/responses"):
		return "/v1/inquiries/{inquiry_id}/responses"
	case strings.HasPrefix(path, "/v1/inquiries/") && strings.HasSuffix(path, "/status"):
		return "/v1/inquiries/{inquiry_id}/status"
	case path == "/v1/inquiries/pending":
		return path
	case strings.HasPrefix(path, "/v1/inquiries/"):
		return "/v1/inquiries/{inquiry_id}"
	case strings.HasPrefix(path, "/v1/templates/"):
		return "/v1/templates/{template_id}"
	default:
		return path
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
