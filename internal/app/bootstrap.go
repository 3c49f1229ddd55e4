// internal/app/bootstrap.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/unclebandit/tourism-predictor/internal/classifier"
	"github.com/unclebandit/tourism-predictor/internal/config"
	"github.com/unclebandit/tourism-predictor/internal/db"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/modelstore"
	"github.com/unclebandit/tourism-predictor/internal/queue"
)

// LoadGateway opens the configured model store and loads the artifact.
// The returned close func releases the database connection, if one was
// opened.
func LoadGateway(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*classifier.Gateway, func(), error) {
	var conn *sql.DB
	closeFn := func() {}
	if cfg.Model.Store == "postgres" {
		c, err := db.Open(ctx, cfg.DB.DSN(), logger)
		if err != nil {
			return nil, closeFn, err
		}
		conn = c
		closeFn = func() { conn.Close() }
	}

	store, err := modelstore.New(cfg, conn, logger)
	if err != nil {
		return nil, closeFn, err
	}

	key := cfg.Model.Key
	if key.Revision == "" {
		key.Revision = classifier.DefaultRevision
	}
	if key.RepoType == "" {
		key.RepoType = classifier.ModelRepoType
	}

	gw, err := classifier.Load(ctx, store, key, logger)
	if err != nil && unreadable(err) {
		// A corrupt cached copy would otherwise fail every start.
		if c, ok := store.(evicter); ok {
			if evicted, evictErr := c.Evict(key); evictErr != nil {
				logger.Warn("failed to evict cached artifact", slog.String("error", evictErr.Error()))
			} else if evicted {
				gw, err = classifier.Load(ctx, store, key, logger)
			}
		}
	}
	if err != nil {
		return nil, closeFn, err
	}
	return gw, closeFn, nil
}

// evicter is a store that keeps a local copy it can drop.
type evicter interface {
	Evict(key model.ArtifactKey) (bool, error)
}

func unreadable(err error) bool {
	var loadErr *appErrors.ArtifactLoadError
	if !errors.As(err, &loadErr) {
		return false
	}
	switch loadErr.Stage {
	case appErrors.StageDecode, appErrors.StageVerify, appErrors.StageType:
		return true
	}
	return false
}

// OpenQueue connects to the broker named by cfg.Queue.Driver.
func OpenQueue(cfg *config.Config, logger *slog.Logger) (queue.Queue, error) {
	switch cfg.Queue.Driver {
	case "amqp":
		q, err := queue.DialAMQP(cfg.Queue.AMQPURL, logger)
		if err != nil {
			return nil, err
		}
		return q, nil
	case "kafka":
		return queue.NewKafkaQueue(cfg.Queue.KafkaBrokers, cfg.Queue.KafkaGroupID, logger), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}
