package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	triageTotal        *prometheus.CounterVec
	triageDuration     *prometheus.HistogramVec
	triageInFlight     prometheus.Gauge
	queueLag           *prometheus.HistogramVec
	escalationsTotal   *prometheus.CounterVec
	notifyFailureTotal *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	triageTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "worker",
			Name:      "triage_total",
			Help:      "Total triaged inquiries by outcome.",
		},
		[]string{"service", "status"},
	)
	triageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tis",
			Subsystem: "worker",
			Name:      "triage_duration_seconds",
			Help:      "Triage pass duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	triageInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tis",
			Subsystem: "worker",
			Name:      "triage_in_flight",
			Help:      "Number of in-flight triage passes.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tis",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between inquiry submission and triage start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	escalationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "worker",
			Name:      "escalations_total",
			Help:      "Total escalations by reason.",
		},
		[]string{"service", "reason"},
	)
	notifyFailureTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tis",
			Subsystem: "worker",
			Name:      "notification_failures_total",
			Help:      "Total failed notification deliveries.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		triageTotal,
		triageDuration,
		triageInFlight,
		queueLag,
		escalationsTotal,
		notifyFailureTotal,
	)

	return &WorkerMetrics{
		registry:           registry,
		triageTotal:        triageTotal,
		triageDuration:     triageDuration,
		triageInFlight:     triageInFlight,
		queueLag:           queueLag,
		escalationsTotal:   escalationsTotal,
		notifyFailureTotal: notifyFailureTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartTriage() {
	m.triageInFlight.Inc()
}

func (m *WorkerMetrics) FinishTriage(service string, duration time.Duration, err error) {
	m.triageInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.triageTotal.WithLabelValues(service, status).Inc()
	m.triageDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordEscalation(service, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.escalationsTotal.WithLabelValues(service, reason).Inc()
}

func (m *WorkerMetrics) RecordNotificationFailure(service string) {
	m.notifyFailureTotal.WithLabelValues(service).Inc()
}
