// internal/service/worker.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/queue"
)

// ScoringJob is one queued record.
type ScoringJob struct {
	ID     string               `json:"id"`
	Record model.CustomerRecord `json:"record"`
}

// ScoringResult answers a ScoringJob. Error is set instead of a label when
// the job could not be scored.
type ScoringResult struct {
	ID          string      `json:"id"`
	Label       model.Label `json:"label,omitempty"`
	Purchase    bool        `json:"purchase"`
	Probability float64     `json:"probability,omitempty"`
	Model       string      `json:"model,omitempty"`
	Version     string      `json:"version,omitempty"`
	Error       string      `json:"error,omitempty"`
	ScoredAt    time.Time   `json:"scored_at"`
}

// NewScoringJob wraps a record with a fresh id.
func NewScoringJob(rec model.CustomerRecord) ScoringJob {
	return ScoringJob{ID: uuid.NewString(), Record: rec}
}

// Worker scores jobs from RequestTopic and publishes results to ResultTopic.
type Worker struct {
	Queue        queue.Queue
	Service      *PredictionService
	RequestTopic string
	ResultTopic  string
	Logger       *slog.Logger
}

// Constructor
func NewWorker(q queue.Queue, svc *PredictionService, requestTopic, resultTopic string, logger *slog.Logger) *Worker {
	return &Worker{
		Queue:        q,
		Service:      svc,
		RequestTopic: requestTopic,
		ResultTopic:  resultTopic,
		Logger:       logger,
	}
}

// Start subscribes to the request topic.
func (w *Worker) Start(ctx context.Context) error {
	w.Logger.Info("worker subscribing", slog.String("topic", w.RequestTopic))
	return w.Queue.Subscribe(ctx, w.RequestTopic, w.Handle)
}

// Handle scores one payload. Bad payloads and rejected records get an error
// result and are not retried; only a failed result publish is returned.
func (w *Worker) Handle(ctx context.Context, payload []byte) error {
	var job ScoringJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.Logger.Warn("invalid job payload", slog.String("error", err.Error()))
		return w.publish(ctx, ScoringResult{Error: "invalid job payload: " + err.Error()})
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	result := w.score(ctx, job)
	return w.publish(ctx, result)
}

func (w *Worker) score(ctx context.Context, job ScoringJob) ScoringResult {
	result := ScoringResult{ID: job.ID}

	if err := job.Record.Validate(); err != nil {
		w.Service.RecordRejection(err)
		result.Error = err.Error()
		return result
	}

	p, err := w.Service.Predict(ctx, job.Record)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Label = p.Label
	result.Purchase = p.Purchase
	result.Probability = p.Probability
	result.Model = p.ModelName
	result.Version = p.ModelVersion
	return result
}

func (w *Worker) publish(ctx context.Context, result ScoringResult) error {
	result.ScoredAt = time.Now().UTC()
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := w.Queue.Publish(ctx, w.ResultTopic, body); err != nil {
		return fmt.Errorf("publish result %s: %w", result.ID, err)
	}
	w.Logger.Info("job scored",
		slog.String("id", result.ID),
		slog.String("label", string(result.Label)),
		slog.String("error", result.Error),
	)
	return nil
}
