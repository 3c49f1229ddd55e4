// internal/handler/form_handler.go
package handler

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
	"github.com/unclebandit/tourism-predictor/internal/service"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// FormHandler serves the single-page prediction form.
type FormHandler struct {
	Service *service.PredictionService
	Logger  *slog.Logger
}

func NewFormHandler(svc *service.PredictionService, logger *slog.Logger) *FormHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormHandler{Service: svc, Logger: logger}
}

func (h *FormHandler) Routes(r chi.Router) {
	r.Get("/", h.ShowForm)
	r.Post("/", h.SubmitForm)
}

const (
	msgSchemaMismatch = "The loaded model does not accept these inputs. Please contact the site operator."
	msgNotReady       = "The model is still loading. Please try again shortly."
	msgInternal       = "Something went wrong while predicting. Please try again."

	maxFormBytes = 64 << 10
)

type numericInput struct {
	Name, Label string
	Min, Max    int
	Value       int
}

type categoricalInput struct {
	Name, Label string
	Options     []string
	Value       string
}

type formPage struct {
	Numeric     []numericInput
	Categorical []categoricalInput
	Prediction  *model.Prediction
	Error       string
	Fields      []appErrors.FieldError
}

// numericFields maps form names to record fields. Order is the order the
// inputs are shown in.
var numericFields = []struct {
	name, label, column string
	ptr                 func(*model.CustomerRecord) *int
}{
	{"age", "Age", "Age", func(r *model.CustomerRecord) *int { return &r.Age }},
	{"city_tier", "City tier", "CityTier", func(r *model.CustomerRecord) *int { return &r.CityTier }},
	{"duration_of_pitch", "Duration of pitch (minutes)", "DurationOfPitch", func(r *model.CustomerRecord) *int { return &r.DurationOfPitch }},
	{"number_of_person_visiting", "Persons visiting", "NumberOfPersonVisiting", func(r *model.CustomerRecord) *int { return &r.NumberOfPersonVisiting }},
	{"number_of_followups", "Follow-ups", "NumberOfFollowups", func(r *model.CustomerRecord) *int { return &r.NumberOfFollowups }},
	{"preferred_property_star", "Preferred property star", "PreferredPropertyStar", func(r *model.CustomerRecord) *int { return &r.PreferredPropertyStar }},
	{"number_of_trips", "Trips per year", "NumberOfTrips", func(r *model.CustomerRecord) *int { return &r.NumberOfTrips }},
	{"passport", "Passport (0 or 1)", "Passport", func(r *model.CustomerRecord) *int { return &r.Passport }},
	{"pitch_satisfaction_score", "Pitch satisfaction score", "PitchSatisfactionScore", func(r *model.CustomerRecord) *int { return &r.PitchSatisfactionScore }},
	{"own_car", "Owns a car (0 or 1)", "OwnCar", func(r *model.CustomerRecord) *int { return &r.OwnCar }},
	{"number_of_children_visiting", "Children visiting", "NumberOfChildrenVisiting", func(r *model.CustomerRecord) *int { return &r.NumberOfChildrenVisiting }},
	{"monthly_income", "Monthly income", "MonthlyIncome", func(r *model.CustomerRecord) *int { return &r.MonthlyIncome }},
}

var categoricalFields = []struct {
	name, label string
	field       model.CategoricalField
	ptr         func(*model.CustomerRecord) *string
}{
	{"typeof_contact", "Type of contact", model.TypeofContactField, func(r *model.CustomerRecord) *string { return &r.TypeofContact }},
	{"occupation", "Occupation", model.OccupationField, func(r *model.CustomerRecord) *string { return &r.Occupation }},
	{"gender", "Gender", model.GenderField, func(r *model.CustomerRecord) *string { return &r.Gender }},
	{"product_pitched", "Product pitched", model.ProductPitchedField, func(r *model.CustomerRecord) *string { return &r.ProductPitched }},
	{"marital_status", "Marital status", model.MaritalStatusField, func(r *model.CustomerRecord) *string { return &r.MaritalStatus }},
	{"designation", "Designation", model.DesignationField, func(r *model.CustomerRecord) *string { return &r.Designation }},
}

func (h *FormHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newPage(model.DefaultCustomerRecord()))
}

func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		page := newPage(model.DefaultCustomerRecord())
		page.Error = "invalid form: " + err.Error()
		h.render(w, http.StatusBadRequest, page)
		return
	}

	rec, err := parseRecord(r)
	if err == nil {
		err = rec.Validate()
	}
	page := newPage(rec)
	if err != nil {
		h.Service.RecordRejection(err)
		var verr *appErrors.ValidationError
		if errors.As(err, &verr) {
			page.Fields = verr.Fields
		}
		page.Error = "Please correct the highlighted inputs."
		h.render(w, http.StatusBadRequest, page)
		return
	}

	prediction, err := h.Service.Predict(r.Context(), rec)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case appErrors.IsSchemaMismatch(err):
			status = http.StatusUnprocessableEntity
			page.Error = msgSchemaMismatch
			h.Logger.Warn("form prediction rejected", slog.String("error", err.Error()))
		case errors.Is(err, service.ErrNotReady):
			status = http.StatusServiceUnavailable
			page.Error = msgNotReady
		default:
			page.Error = msgInternal
			h.Logger.Error("form prediction failed", slog.String("error", err.Error()))
		}
		h.render(w, status, page)
		return
	}
	page.Prediction = prediction
	h.render(w, http.StatusOK, page)
}

// parseRecord starts from the defaults so omitted inputs keep them.
func parseRecord(r *http.Request) (model.CustomerRecord, error) {
	rec := model.DefaultCustomerRecord()
	var fields []appErrors.FieldError
	for _, f := range numericFields {
		raw := r.PostForm.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, appErrors.FieldError{Field: f.column, Reason: "must be a whole number"})
			continue
		}
		*f.ptr(&rec) = n
	}
	for _, f := range categoricalFields {
		if raw := r.PostForm.Get(f.name); raw != "" {
			*f.ptr(&rec) = raw
		}
	}
	if len(fields) > 0 {
		return rec, appErrors.NewValidationError(fields)
	}
	return rec, nil
}

func newPage(rec model.CustomerRecord) formPage {
	bounds := map[string]model.NumericBound{}
	for _, b := range model.NumericBounds() {
		bounds[b.Column] = b
	}

	var page formPage
	for _, f := range numericFields {
		b := bounds[f.column]
		page.Numeric = append(page.Numeric, numericInput{
			Name: f.name, Label: f.label, Min: b.Min, Max: b.Max, Value: *f.ptr(&rec),
		})
	}
	for _, f := range categoricalFields {
		page.Categorical = append(page.Categorical, categoricalInput{
			Name: f.name, Label: f.label, Options: f.field.Values, Value: *f.ptr(&rec),
		})
	}
	return page
}

func (h *FormHandler) render(w http.ResponseWriter, status int, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, page); err != nil {
		h.Logger.Error("render form", slog.String("error", err.Error()))
	}
}
