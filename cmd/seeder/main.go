// cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/unclebandit/tourism-predictor/internal/classifier"
	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/db"
	"github.com/unclebandit/tourism-predictor/internal/observability"
	"github.com/unclebandit/tourism-predictor/internal/repository"
)

// Usage: seeder [artifact.json]
//
// Applies migrations/*.sql, then uploads the artifact (default
// models/<repo>/<file>) under the configured model key.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := observability.InitLogger(cfg.Log)

	if err := run(context.Background(), cfg, logger, os.Args[1:]); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	conn, err := db.Open(ctx, cfg.DB.DSN(), logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
		logger.Info("applied migration", slog.String("file", file))
	}

	key := cfg.Model.Key
	path := filepath.Join(cfg.Model.Dir, key.RepoID, key.Filename)
	if len(args) > 0 {
		path = args[0]
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	// Refuse to store something the gateway would reject at startup.
	a, err := classifier.DecodeArtifact(blob)
	if err == nil {
		err = a.Verify()
	}
	if err != nil {
		return fmt.Errorf("artifact %s is not loadable: %w", path, err)
	}

	repo := &repository.ArtifactRepository{DB: conn}
	stored, err := repo.Put(ctx, key, blob)
	if err != nil {
		return fmt.Errorf("upload artifact: %w", err)
	}
	fmt.Printf("Seeded %s (sha256 %s)\n", stored.Key(), stored.SHA256)
	return nil
}
