package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/tour-inquiry-service/internal/adapters/http"
	"github.com/kirillkom/tour-inquiry-service/internal/bootstrap"
	"github.com/kirillkom/tour-inquiry-service/internal/config"
	"github.com/kirillkom/tour-inquiry-service/internal/observability/logging"
	"github.com/kirillkom/tour-inquiry-service/internal/observability/metrics"
)

const serviceName = "inquiry-api"

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

	router := httpadapter.NewRouter(
		app.SubmitUC,
		app.TriageUC,
		app.Reader,
		app.AdminUC,
		app.Responses,
		app.Templates,
		httpadapter.RouterOptions{
			Metrics:      metrics.NewHTTPServerMetrics(serviceName),
			Service:      serviceName,
			RateLimitRPS: cfg.APIRateLimitRPS,
			RateBurst:    cfg.APIRateLimitBurst,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown failed", "error", err)
	}
}
