// internal/classifier/gateway.go
package classifier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/unclebandit/tourism-predictor/internal/encoder"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

const (
	DefaultRevision = "main"
	ModelRepoType   = "model"
)

// ArtifactSource fetches serialized artifacts, e.g. a model store.
type ArtifactSource interface {
	Fetch(ctx context.Context, key model.ArtifactKey) ([]byte, error)
}

// Decision is the outcome for one feature vector.
type Decision struct {
	Label       model.Label
	Probability float64
}

// Info describes the loaded artifact.
type Info struct {
	Key          model.ArtifactKey `json:"key"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	FeatureCount int               `json:"feature_count"`
	TreeCount    int               `json:"tree_count"`
	LoadedAt     time.Time         `json:"loaded_at"`
}

// Gateway holds the one loaded classifier for the process. It is built by
// Load and never changes afterwards, so Predict needs no locking.
type Gateway struct {
	key      model.ArtifactKey
	artifact *Artifact
	schema   encoder.Schema
	loadedAt time.Time
	logger   *slog.Logger
}

// Load fetches, decodes and verifies the artifact named by key. Every failure
// is an ArtifactLoadError and no gateway is returned.
func Load(ctx context.Context, src ArtifactSource, key model.ArtifactKey, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if key.Revision == "" {
		key.Revision = DefaultRevision
	}
	if key.RepoType == "" {
		key.RepoType = ModelRepoType
	}
	if key.RepoType != ModelRepoType {
		return nil, appErrors.NewArtifactLoadError(key.String(), appErrors.StageType,
			errors.New("repo type must be "+ModelRepoType))
	}

	start := time.Now()
	data, err := src.Fetch(ctx, key)
	if err != nil {
		return nil, appErrors.NewArtifactLoadError(key.String(), appErrors.StageFetch, err)
	}

	artifact, err := DecodeArtifact(data)
	if err != nil {
		return nil, appErrors.NewArtifactLoadError(key.String(), appErrors.StageDecode, err)
	}
	if err := artifact.Verify(); err != nil {
		stage := appErrors.StageVerify
		if errors.Is(err, errWrongFormat) || errors.Is(err, errWrongType) {
			stage = appErrors.StageType
		}
		return nil, appErrors.NewArtifactLoadError(key.String(), stage, err)
	}

	g := &Gateway{
		key:      key,
		artifact: artifact,
		schema:   artifact.Schema(),
		loadedAt: time.Now(),
		logger:   logger,
	}
	logger.Info("classifier artifact loaded",
		slog.String("key", key.String()),
		slog.String("name", artifact.Name),
		slog.String("version", artifact.Version),
		slog.Int("features", len(artifact.FeatureNames)),
		slog.Int("trees", len(artifact.Trees)),
		slog.Duration("took", time.Since(start)),
	)
	return g, nil
}

// Predict returns Purchase or NoPurchase for a vector that matches the
// artifact's input schema exactly.
func (g *Gateway) Predict(vec encoder.FeatureVector) (model.Label, error) {
	d, err := g.Decide(vec)
	if err != nil {
		return "", err
	}
	return d.Label, nil
}

// PredictProba returns the positive-class probability only.
func (g *Gateway) PredictProba(vec encoder.FeatureVector) (float64, error) {
	d, err := g.Decide(vec)
	if err != nil {
		return 0, err
	}
	return d.Probability, nil
}

// Decide is Predict plus the positive-class probability.
func (g *Gateway) Decide(vec encoder.FeatureVector) (Decision, error) {
	if err := CheckSchema(g.schema, vec.Columns()); err != nil {
		return Decision{}, err
	}

	margin, err := g.artifact.Margin(vec)
	if err != nil {
		var tm *typeMismatch
		if errors.As(err, &tm) {
			return Decision{}, &appErrors.SchemaMismatchError{TypeMismatch: []string{tm.column}}
		}
		return Decision{}, err
	}

	p := Probability(margin)
	class := 0
	if p >= g.artifact.threshold() {
		class = 1
	}
	label := model.NoPurchase
	if class == g.artifact.positiveClass() {
		label = model.Purchase
	}
	return Decision{Label: label, Probability: p}, nil
}

// Schema is the artifact's declared input layout.
func (g *Gateway) Schema() encoder.Schema { return g.schema }

func (g *Gateway) Info() Info {
	return Info{
		Key:          g.key,
		Name:         g.artifact.Name,
		Version:      g.artifact.Version,
		FeatureCount: len(g.artifact.FeatureNames),
		TreeCount:    len(g.artifact.Trees),
		LoadedAt:     g.loadedAt,
	}
}

// CheckSchema compares a vector's columns with the expected layout: same
// names, same count, same order.
func CheckSchema(expected encoder.Schema, columns []string) error {
	want := expected.Columns()

	got := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		got[c] = struct{}{}
	}

	mismatch := &appErrors.SchemaMismatchError{}
	for _, c := range want {
		if _, ok := got[c]; !ok {
			mismatch.Missing = append(mismatch.Missing, c)
		}
	}
	for _, c := range columns {
		if !expected.Has(c) {
			mismatch.Unexpected = append(mismatch.Unexpected, c)
		}
	}
	if len(mismatch.Missing) == 0 && len(mismatch.Unexpected) == 0 {
		if len(want) != len(columns) {
			// Same set, different count: duplicated columns.
			mismatch.OrderMismatch = true
		} else {
			for i := range want {
				if want[i] != columns[i] {
					mismatch.OrderMismatch = true
					break
				}
			}
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Unexpected) > 0 || mismatch.OrderMismatch {
		return mismatch
	}
	return nil
}
