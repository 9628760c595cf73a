package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/tour-inquiry-service/internal/bootstrap"
	"github.com/kirillkom/tour-inquiry-service/internal/config"
	"github.com/kirillkom/tour-inquiry-service/internal/observability/logging"
	"github.com/kirillkom/tour-inquiry-service/internal/observability/metrics"
)

const serviceName = "inquiry-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app.TriageUC.SetObserver(triageObserver{metrics: workerMetrics})
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsHandler(workerMetrics),
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	triageTimeout := time.Duration(cfg.TriageTimeoutSeconds) * time.Second

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeInquirySubmitted(ctx, func(handlerCtx context.Context, inquiryID string) error {
		triageCtx, cancel := context.WithTimeout(handlerCtx, triageTimeout)
		defer cancel()

		if inq, err := app.Reader.GetByID(triageCtx, inquiryID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(inq.CreatedAt))
		}

		workerMetrics.StartTriage()
		start := time.Now()
		triageErr := app.TriageUC.TriageByID(triageCtx, inquiryID)
		workerMetrics.FinishTriage(serviceName, time.Since(start), triageErr)
		return triageErr
	})
	if err != nil {
		slog.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}
}

// triageObserver feeds escalation reasons and notification failures from
// the triage pass into the worker registry.
type triageObserver struct {
	metrics *metrics.WorkerMetrics
}

func (o triageObserver) EscalationRecorded(reason string) {
	o.metrics.RecordEscalation(serviceName, reason)
}

func (o triageObserver) NotificationFailed() {
	o.metrics.RecordNotificationFailure(serviceName)
}

func metricsHandler(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
