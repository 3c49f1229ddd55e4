// internal/service/prediction_service.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/unclebandit/tourism-predictor/internal/classifier"
	"github.com/unclebandit/tourism-predictor/internal/encoder"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/observability"
)

// ErrNotReady is returned when no classifier has been loaded.
var ErrNotReady = errors.New("classifier not loaded")

// Classifier is the part of the gateway the service needs.
type Classifier interface {
	Decide(vec encoder.FeatureVector) (classifier.Decision, error)
	Info() classifier.Info
}

type PredictionService struct {
	Classifier Classifier
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

// SchemaDescription tells form builders what to collect.
type SchemaDescription struct {
	Columns    []string             `json:"columns"`
	Numeric    []model.NumericBound `json:"numeric"`
	Vocabulary map[string][]string  `json:"vocabulary"`
	Model      *classifier.Info     `json:"model,omitempty"`
}

func NewPredictionService(c Classifier, metrics *observability.Metrics, logger *slog.Logger) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics != nil && c != nil {
		info := c.Info()
		metrics.ModelInfo.WithLabelValues(info.Name, info.Version).Set(1)
	}
	return &PredictionService{Classifier: c, Metrics: metrics, Logger: logger}
}

// Ready reports whether a classifier is loaded.
func (s *PredictionService) Ready() bool {
	return s.Classifier != nil
}

// Encode builds the feature vector for a record.
func (s *PredictionService) Encode(rec model.CustomerRecord) encoder.FeatureVector {
	return encoder.Encode(rec)
}

// Predict encodes rec and asks the classifier for a label. Range and
// vocabulary checks belong to the caller.
func (s *PredictionService) Predict(ctx context.Context, rec model.CustomerRecord) (*model.Prediction, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}
	start := time.Now()

	vec := encoder.Encode(rec)
	d, err := s.Classifier.Decide(vec)
	if err != nil {
		s.countError(err)
		s.Logger.WarnContext(ctx, "prediction rejected", slog.String("error", err.Error()))
		return nil, err
	}

	info := s.Classifier.Info()
	p := &model.Prediction{
		Label:        d.Label,
		Purchase:     d.Label == model.Purchase,
		Probability:  d.Probability,
		ModelName:    info.Name,
		ModelVersion: info.Version,
		PredictedAt:  time.Now().UTC(),
	}

	if s.Metrics != nil {
		s.Metrics.Predictions.WithLabelValues(string(d.Label)).Inc()
		s.Metrics.Duration.Observe(time.Since(start).Seconds())
	}
	s.Logger.DebugContext(ctx, "prediction served",
		slog.String("label", string(p.Label)),
		slog.Float64("probability", p.Probability),
	)
	return p, nil
}

// Describe returns the schema, bounds and vocabularies.
func (s *PredictionService) Describe() SchemaDescription {
	vocab := map[string][]string{}
	for _, f := range model.Vocabulary() {
		vocab[f.Column] = append([]string(nil), f.Values...)
	}
	desc := SchemaDescription{
		Columns:    encoder.TrainedSchema().Columns(),
		Numeric:    model.NumericBounds(),
		Vocabulary: vocab,
	}
	if s.Classifier != nil {
		info := s.Classifier.Info()
		desc.Model = &info
	}
	return desc
}

// RecordRejection counts a request turned away before prediction.
func (s *PredictionService) RecordRejection(err error) {
	s.countError(err)
}

func (s *PredictionService) countError(err error) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.Errors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind is a short label for an error, used in metrics and responses.
func ErrorKind(err error) string {
	switch {
	case appErrors.IsSchemaMismatch(err):
		return "schema_mismatch"
	case appErrors.IsValidation(err):
		return "validation"
	case appErrors.IsArtifactLoad(err):
		return "artifact_load"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	default:
		return "internal"
	}
}
