package classifier_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/tourism-predictor/internal/classifier"
	"github.com/unclebandit/tourism-predictor/internal/encoder"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

type mockSource struct {
	data  []byte
	err   error
	calls int
	key   model.ArtifactKey
}

func (m *mockSource) Fetch(_ context.Context, key model.ArtifactKey) ([]byte, error) {
	m.calls++
	m.key = key
	return m.data, m.err
}

var testKey = model.ArtifactKey{RepoID: "Narendranh/Tourism", Filename: "tourism_model_v1.json"}

func loadTestGateway(t *testing.T) *classifier.Gateway {
	t.Helper()
	data, err := os.ReadFile("testdata/tourism_model_v1.json")
	require.NoError(t, err)

	g, err := classifier.Load(context.Background(), &mockSource{data: data}, testKey, nil)
	require.NoError(t, err)
	return g
}

func buyer() model.CustomerRecord {
	rec := model.DefaultCustomerRecord()
	rec.Passport = 1
	rec.Designation = "Executive"
	rec.MonthlyIncome = 20000
	rec.ProductPitched = "Basic"
	return rec
}

func browser() model.CustomerRecord {
	rec := model.DefaultCustomerRecord()
	rec.Passport = 0
	rec.Designation = "Manager"
	rec.MonthlyIncome = 30000
	rec.ProductPitched = "Deluxe"
	return rec
}

func TestLoadFillsKeyDefaults(t *testing.T) {
	data, err := os.ReadFile("testdata/tourism_model_v1.json")
	require.NoError(t, err)
	src := &mockSource{data: data}

	g, err := classifier.Load(context.Background(), src, testKey, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "main", src.key.Revision)
	assert.Equal(t, "model", src.key.RepoType)

	info := g.Info()
	assert.Equal(t, "tourism-purchase", info.Name)
	assert.Equal(t, "v1", info.Version)
	assert.Equal(t, 39, info.FeatureCount)
	assert.Equal(t, 4, info.TreeCount)
	assert.False(t, info.LoadedAt.IsZero())
}

func TestPredictKnownLabels(t *testing.T) {
	g := loadTestGateway(t)

	label, err := g.Predict(encoder.Encode(buyer()))
	require.NoError(t, err)
	assert.Equal(t, model.Purchase, label)

	label, err = g.Predict(encoder.Encode(browser()))
	require.NoError(t, err)
	assert.Equal(t, model.NoPurchase, label)
}

func TestDecideProbability(t *testing.T) {
	g := loadTestGateway(t)

	// base -0.5, passport +1.2, executive +0.6, income +0.3, basic +0.25
	d, err := g.Decide(encoder.Encode(buyer()))
	require.NoError(t, err)
	assert.InDelta(t, classifier.Probability(1.85), d.Probability, 1e-12)

	// defaults: -0.5 -0.8 +0.6 +0.3 +0.25
	d, err = g.Decide(encoder.Encode(model.DefaultCustomerRecord()))
	require.NoError(t, err)
	assert.InDelta(t, classifier.Probability(-0.15), d.Probability, 1e-12)
	assert.Equal(t, model.NoPurchase, d.Label)
}

func TestPredictNeverMismatchesForVocabularyRecords(t *testing.T) {
	g := loadTestGateway(t)
	rec := model.DefaultCustomerRecord()

	n := 0
	for _, contact := range model.TypeofContactField.Values {
		for _, occ := range model.OccupationField.Values {
			for _, gender := range model.GenderField.Values {
				for _, product := range model.ProductPitchedField.Values {
					for _, marital := range model.MaritalStatusField.Values {
						for _, desig := range model.DesignationField.Values {
							rec.TypeofContact = contact
							rec.Occupation = occ
							rec.Gender = gender
							rec.ProductPitched = product
							rec.MaritalStatus = marital
							rec.Designation = desig
							rec.MonthlyIncome = 1000 + n*80
							_, err := g.Predict(encoder.Encode(rec))
							require.NoError(t, err)
							n++
						}
					}
				}
			}
		}
	}
	assert.Equal(t, 1200, n)
}

func TestPredictNeverMismatchesAtNumericBounds(t *testing.T) {
	g := loadTestGateway(t)

	for _, b := range model.NumericBounds() {
		for _, v := range []int{b.Min, b.Max} {
			rec := model.DefaultCustomerRecord()
			setNumber(t, &rec, b.Column, v)
			require.NoError(t, rec.Validate(), "%s=%d", b.Column, v)

			vec := encoder.Encode(rec)
			assert.Equal(t, float64(v), vec.Number(b.Column))

			_, err := g.Predict(vec)
			assert.NoError(t, err, "%s=%d", b.Column, v)
		}
	}
}

func setNumber(t *testing.T, rec *model.CustomerRecord, column string, v int) {
	t.Helper()
	fields := map[string]*int{
		"Age":                      &rec.Age,
		"CityTier":                 &rec.CityTier,
		"DurationOfPitch":          &rec.DurationOfPitch,
		"NumberOfPersonVisiting":   &rec.NumberOfPersonVisiting,
		"NumberOfFollowups":        &rec.NumberOfFollowups,
		"PreferredPropertyStar":    &rec.PreferredPropertyStar,
		"NumberOfTrips":            &rec.NumberOfTrips,
		"Passport":                 &rec.Passport,
		"PitchSatisfactionScore":   &rec.PitchSatisfactionScore,
		"OwnCar":                   &rec.OwnCar,
		"NumberOfChildrenVisiting": &rec.NumberOfChildrenVisiting,
		"MonthlyIncome":            &rec.MonthlyIncome,
	}
	p, ok := fields[column]
	require.True(t, ok, "unknown numeric column %s", column)
	*p = v
}

func TestPredictSchemaMismatch(t *testing.T) {
	g := loadTestGateway(t)

	short := encoder.NewSchema(encoder.TrainedSchema().Columns()[:20])
	vec := encoder.Project(encoder.Row(buyer()), short)

	_, err := g.Predict(vec)
	require.Error(t, err)
	assert.True(t, appErrors.IsSchemaMismatch(err))

	var mismatch *appErrors.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Len(t, mismatch.Missing, 19)

	// The gateway stays usable after a bad request.
	label, err := g.Predict(encoder.Encode(buyer()))
	require.NoError(t, err)
	assert.Equal(t, model.Purchase, label)
}

func TestCheckSchemaOrder(t *testing.T) {
	expected := encoder.NewSchema([]string{"a", "b", "c"})

	assert.NoError(t, classifier.CheckSchema(expected, []string{"a", "b", "c"}))

	err := classifier.CheckSchema(expected, []string{"b", "a", "c"})
	var mismatch *appErrors.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.True(t, mismatch.OrderMismatch)

	err = classifier.CheckSchema(expected, []string{"a", "b", "c", "d"})
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"d"}, mismatch.Unexpected)
}

func TestPredictTypeMismatch(t *testing.T) {
	g := loadTestGateway(t)

	row := encoder.Row(buyer())
	row["Passport"] = encoder.Text("yes")
	_, err := g.Predict(encoder.Project(row, encoder.TrainedSchema()))

	var mismatch *appErrors.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"Passport"}, mismatch.TypeMismatch)
}

func TestLoadFailures(t *testing.T) {
	valid, err := os.ReadFile("testdata/tourism_model_v1.json")
	require.NoError(t, err)

	tests := []struct {
		name  string
		src   *mockSource
		key   model.ArtifactKey
		stage string
	}{
		{"fetch error", &mockSource{err: errors.New("connection refused")}, testKey, appErrors.StageFetch},
		{"not json", &mockSource{data: []byte("\x80\x04joblib")}, testKey, appErrors.StageDecode},
		{"wrong format", &mockSource{data: []byte(`{"format":"sklearn/joblib"}`)}, testKey, appErrors.StageType},
		{"no trees", &mockSource{data: []byte(`{"format":"tourism-tree-ensemble/v1","feature_names":["Age"]}`)}, testKey, appErrors.StageVerify},
		{"dataset repo", &mockSource{data: valid}, model.ArtifactKey{RepoID: "x", Filename: "y", RepoType: "dataset"}, appErrors.StageType},
		{"positive class out of range", &mockSource{data: []byte(`{"format":"tourism-tree-ensemble/v1","feature_names":["Age"],"positive_class":7,
			"trees":[{"nodes":[{"leaf":true,"value":1}]}]}`)}, testKey, appErrors.StageVerify},
		{"numeric split on text column", &mockSource{data: []byte(`{"format":"tourism-tree-ensemble/v1","feature_names":["Designation"],
			"trees":[{"nodes":[{"feature":"Designation","threshold":1,"left":1,"right":2},{"leaf":true,"value":1},{"leaf":true,"value":-1}]}]}`)}, testKey, appErrors.StageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := classifier.Load(context.Background(), tt.src, tt.key, nil)
			assert.Nil(t, g)
			require.Error(t, err)

			var loadErr *appErrors.ArtifactLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.stage, loadErr.Stage)
		})
	}
}

func TestVerifyRejectsCycles(t *testing.T) {
	a := &classifier.Artifact{
		Format:       classifier.ArtifactFormat,
		FeatureNames: []string{"Age"},
		Trees: []classifier.Tree{{Nodes: []classifier.Node{
			{Feature: "Age", Threshold: 30, Left: 0, Right: 1},
			{Leaf: true, Value: 1},
		}}},
	}
	assert.Error(t, a.Verify())
}

func TestPredictProbaMatchesDecide(t *testing.T) {
	g := loadTestGateway(t)

	rec := model.DefaultCustomerRecord()
	rec.Passport = 1
	vec := encoder.Encode(rec)

	p, err := g.PredictProba(vec)
	require.NoError(t, err)
	d, err := g.Decide(vec)
	require.NoError(t, err)
	assert.Equal(t, d.Probability, p)
	assert.InDelta(t, 0.8641, p, 1e-4)
}
