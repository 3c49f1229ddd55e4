// internal/observability/logging.go
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/unclebandit/tourism-predictor/internal/config"
)

// InitLogger builds the process logger and installs it as the slog default.
func InitLogger(cfg config.LogConfig) *slog.Logger {
	return initLogger(os.Stdout, cfg)
}

func initLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
