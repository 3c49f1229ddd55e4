// internal/controller/prediction_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

// A customer record is a few hundred bytes.
const maxBodyBytes = 64 << 10

type PredictionController struct {
	Service   *service.PredictionService
	Logger    *slog.Logger
	StartedAt time.Time
}

// Routes mounts the JSON API.
func (c *PredictionController) Routes(r chi.Router) {
	r.Post("/predict", c.Predict)
	r.Post("/encode", c.Encode)
	r.Get("/schema", c.Schema)
	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Kind   string                 `json:"kind"`
	Fields []appErrors.FieldError `json:"fields,omitempty"`
}

func (c *PredictionController) Predict(w http.ResponseWriter, r *http.Request) {
	rec, ok := c.decodeRecord(w, r)
	if !ok {
		return
	}

	prediction, err := c.Service.Predict(r.Context(), rec)
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (c *PredictionController) Encode(w http.ResponseWriter, r *http.Request) {
	rec, ok := c.decodeRecord(w, r)
	if !ok {
		return
	}

	vec := c.Service.Encode(rec)
	values := make([]any, vec.Len())
	for i := range values {
		values[i] = vec.Value(i)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": vec.Columns(),
		"values":  values,
	})
}

func (c *PredictionController) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Service.Describe())
}

func (c *PredictionController) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(c.StartedAt).Round(time.Second).String(),
	})
}

func (c *PredictionController) Readyz(w http.ResponseWriter, r *http.Request) {
	if !c.Service.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	info := c.Service.Classifier.Info()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"model":  info,
	})
}

// decodeRecord parses and validates the body. It writes the error response
// itself and reports false when the request must stop.
func (c *PredictionController) decodeRecord(w http.ResponseWriter, r *http.Request) (model.CustomerRecord, bool) {
	var rec model.CustomerRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error(), Kind: "too_large"})
			return rec, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body: " + err.Error(), Kind: "bad_request"})
		return rec, false
	}
	if err := rec.Validate(); err != nil {
		c.Service.RecordRejection(err)
		c.writeError(w, err)
		return rec, false
	}
	return rec, true
}

func (c *PredictionController) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error(), Kind: service.ErrorKind(err)}

	var verr *appErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Fields = verr.Fields
		writeJSON(w, http.StatusBadRequest, resp)
	case appErrors.IsSchemaMismatch(err):
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, service.ErrNotReady):
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		c.Logger.Error("prediction failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
