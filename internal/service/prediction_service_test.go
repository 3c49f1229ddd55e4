package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/tourism-predictor/internal/classifier"
	"github.com/unclebandit/tourism-predictor/internal/encoder"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/modelstore"
	"github.com/unclebandit/tourism-predictor/internal/observability"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

var testKey = model.ArtifactKey{RepoID: "Narendranh/Tourism", Filename: "tourism_model_v1.json"}

func loadGateway(t *testing.T) *classifier.Gateway {
	t.Helper()
	g, err := classifier.Load(context.Background(), &modelstore.FileStore{Root: "../../models"}, testKey, slog.Default())
	require.NoError(t, err)
	return g
}

// MockClassifier returns a fixed decision or error.
type MockClassifier struct {
	decision classifier.Decision
	err      error
	seen     []string
}

func (m *MockClassifier) Decide(vec encoder.FeatureVector) (classifier.Decision, error) {
	m.seen = vec.Columns()
	return m.decision, m.err
}

func (m *MockClassifier) Info() classifier.Info {
	return classifier.Info{Name: "mock", Version: "0"}
}

func buyer() model.CustomerRecord {
	rec := model.DefaultCustomerRecord()
	rec.Passport = 1
	return rec
}

func TestPredictWithLoadedArtifact(t *testing.T) {
	metrics := observability.NewMetrics()
	svc := service.NewPredictionService(loadGateway(t), metrics, nil)

	p, err := svc.Predict(context.Background(), buyer())
	require.NoError(t, err)
	assert.Equal(t, model.Purchase, p.Label)
	assert.True(t, p.Purchase)
	assert.Equal(t, "tourism-purchase", p.ModelName)
	assert.Equal(t, "v1", p.ModelVersion)
	assert.Greater(t, p.Probability, 0.5)

	p, err = svc.Predict(context.Background(), model.DefaultCustomerRecord())
	require.NoError(t, err)
	assert.Equal(t, model.NoPurchase, p.Label)
	assert.False(t, p.Purchase)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Predictions.WithLabelValues("Purchase")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Predictions.WithLabelValues("NoPurchase")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModelInfo.WithLabelValues("tourism-purchase", "v1")))
}

func TestPredictPassesTrainedLayout(t *testing.T) {
	mock := &MockClassifier{decision: classifier.Decision{Label: model.Purchase, Probability: 0.9}}
	svc := service.NewPredictionService(mock, nil, nil)

	_, err := svc.Predict(context.Background(), buyer())
	require.NoError(t, err)
	assert.Equal(t, encoder.TrainedSchema().Columns(), mock.seen)
}

func TestPredictSchemaMismatchIsCounted(t *testing.T) {
	metrics := observability.NewMetrics()
	mock := &MockClassifier{err: &appErrors.SchemaMismatchError{Missing: []string{"Age"}}}
	svc := service.NewPredictionService(mock, metrics, nil)

	p, err := svc.Predict(context.Background(), buyer())
	assert.Nil(t, p)
	assert.True(t, appErrors.IsSchemaMismatch(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Errors.WithLabelValues("schema_mismatch")))
}

func TestDescribe(t *testing.T) {
	svc := service.NewPredictionService(loadGateway(t), nil, nil)

	desc := svc.Describe()
	assert.Len(t, desc.Columns, 39)
	assert.Len(t, desc.Numeric, 12)
	assert.Equal(t, []string{"Male", "Female"}, desc.Vocabulary["Gender"])
	require.NotNil(t, desc.Model)
	assert.Equal(t, 39, desc.Model.FeatureCount)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "validation", service.ErrorKind(appErrors.NewValidationError(nil)))
	assert.Equal(t, "artifact_load", service.ErrorKind(appErrors.NewArtifactLoadError("k", "fetch", assert.AnError)))
	assert.Equal(t, "internal", service.ErrorKind(assert.AnError))
}
