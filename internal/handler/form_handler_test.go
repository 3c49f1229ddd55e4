package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/tourism-predictor/internal/classifier"
	"github.com/unclebandit/tourism-predictor/internal/encoder"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/handler"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/modelstore"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

func newFormRouter(t *testing.T) http.Handler {
	t.Helper()
	key := model.ArtifactKey{RepoID: "Narendranh/Tourism", Filename: "tourism_model_v1.json"}
	g, err := classifier.Load(context.Background(), &modelstore.FileStore{Root: "../../models"}, key, slog.Default())
	require.NoError(t, err)

	r := chi.NewRouter()
	handler.NewFormHandler(service.NewPredictionService(g, nil, nil), nil).Routes(r)
	return r
}

func submit(h http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestShowFormRendersDefaults(t *testing.T) {
	h := newFormRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `name="monthly_income"`)
	assert.Contains(t, body, `value="20000"`)
	assert.Contains(t, body, `<option selected>Company Invited</option>`)
	assert.NotContains(t, body, "Will")
}

func TestSubmitFormPredicts(t *testing.T) {
	h := newFormRouter(t)

	w := submit(h, url.Values{"passport": {"1"}, "designation": {"Executive"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Will Purchase Package")

	w = submit(h, url.Values{"designation": {"Manager"}, "monthly_income": {"30000"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Will Not Purchase Package")
}

func TestSubmitFormRejectsBadInput(t *testing.T) {
	h := newFormRouter(t)

	w := submit(h, url.Values{"age": {"abc"}, "city_tier": {"7"}, "gender": {"Other"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Age: must be a whole number")
	assert.NotContains(t, body, "Will")
}

type mismatchClassifier struct{}

func (mismatchClassifier) Decide(encoder.FeatureVector) (classifier.Decision, error) {
	return classifier.Decision{}, &appErrors.SchemaMismatchError{TypeMismatch: []string{"Designation"}}
}

func (mismatchClassifier) Info() classifier.Info { return classifier.Info{Name: "broken"} }

func TestSubmitFormSchemaMismatch(t *testing.T) {
	r := chi.NewRouter()
	handler.NewFormHandler(service.NewPredictionService(mismatchClassifier{}, nil, nil), nil).Routes(r)

	w := submit(r, url.Values{"passport": {"1"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "does not accept these inputs")
	assert.NotContains(t, body, "wrong value type")
	assert.NotContains(t, body, "Will")
}

func TestSubmitFormWithoutModel(t *testing.T) {
	r := chi.NewRouter()
	handler.NewFormHandler(service.NewPredictionService(nil, nil, nil), nil).Routes(r)

	w := submit(r, url.Values{"passport": {"1"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "still loading")
}
