// internal/modelstore/store.go
package modelstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/repository"
)

// Store returns the raw bytes of an artifact.
type Store interface {
	Fetch(ctx context.Context, key model.ArtifactKey) ([]byte, error)
}

// New builds the store named by cfg.Model.Store. conn is only used by the
// postgres store and may be nil otherwise.
func New(cfg *config.Config, conn *sql.DB, logger *slog.Logger) (Store, error) {
	switch cfg.Model.Store {
	case "hub":
		return NewHubStore(cfg.Hub, logger), nil
	case "file":
		return &FileStore{Root: cfg.Model.Dir}, nil
	case "postgres":
		if conn == nil {
			return nil, errors.New("postgres model store needs a database connection")
		}
		return &PostgresStore{Repo: &repository.ArtifactRepository{DB: conn}}, nil
	}
	return nil, fmt.Errorf("unknown model store %q", cfg.Model.Store)
}

// PostgresStore reads artifacts uploaded by the seeder.
type PostgresStore struct {
	Repo repository.ArtifactRepositoryInterface
}

func (s *PostgresStore) Fetch(ctx context.Context, key model.ArtifactKey) ([]byte, error) {
	a, err := s.Repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return a.Blob, nil
}
