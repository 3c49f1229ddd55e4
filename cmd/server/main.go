// cmd/server/main.go
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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/tourism-predictor/internal/app"
	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/controller"
	"github.com/unclebandit/tourism-predictor/internal/handler"
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
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run blocks until ctx is cancelled or the listener fails. The model is
// loaded before the listener is bound.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gw, closeStore, err := app.LoadGateway(ctx, cfg, logger)
	defer closeStore()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	metrics := observability.NewMetrics()
	predictionService := service.NewPredictionService(gw, metrics, logger)
	predictionController := &controller.PredictionController{
		Service:   predictionService,
		Logger:    logger,
		StartedAt: time.Now(),
	}
	formHandler := handler.NewFormHandler(predictionService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	formHandler.Routes(r)
	predictionController.Routes(r)
	r.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("addr", cfg.HTTPAddr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
