// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/tourism-predictor/internal/app"
	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/observability"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := observability.InitLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("worker exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads the model, subscribes to the request topic and serves /metrics
// until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gw, closeStore, err := app.LoadGateway(ctx, cfg, logger)
	defer closeStore()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	q, err := app.OpenQueue(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Queue.Driver, err)
	}
	defer q.Close()

	metrics := observability.NewMetrics()
	svc := service.NewPredictionService(gw, metrics, logger)
	worker := service.NewWorker(q, svc, cfg.Queue.RequestTopic, cfg.Queue.ResultTopic, logger)
	if err := worker.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	metricsSrv := metrics.NewServer(cfg.MetricsAddr)
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("worker running, waiting for jobs",
		slog.String("driver", cfg.Queue.Driver),
		slog.String("topic", cfg.Queue.RequestTopic),
		slog.String("metrics", cfg.MetricsAddr),
	)
	<-ctx.Done()
	logger.Info("worker stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return metricsSrv.Shutdown(shutdownCtx)
}
