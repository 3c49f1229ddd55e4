package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

func TestDefaultRecordIsValid(t *testing.T) {
	assert.NoError(t, model.DefaultCustomerRecord().Validate())
}

func TestValidateReportsEveryField(t *testing.T) {
	rec := model.DefaultCustomerRecord()
	rec.Age = 17
	rec.MonthlyIncome = 100001
	rec.Gender = "Other"

	err := rec.Validate()
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))

	var verr *appErrors.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.Equal(t, map[string]bool{"Age": true, "MonthlyIncome": true, "Gender": true}, fields)
}

func TestValidateAcceptsBounds(t *testing.T) {
	rec := model.DefaultCustomerRecord()
	rec.Age = 100
	rec.MonthlyIncome = 1000
	rec.NumberOfTrips = 0
	rec.CityTier = 3
	assert.NoError(t, rec.Validate())
}

func TestCategoricalFieldContains(t *testing.T) {
	assert.True(t, model.ProductPitchedField.Contains("Super Deluxe"))
	assert.False(t, model.ProductPitchedField.Contains("super deluxe"))
}

func TestLabelMessage(t *testing.T) {
	assert.Equal(t, "Will Purchase Package", model.Purchase.Message())
	assert.Equal(t, "Will Not Purchase Package", model.NoPurchase.Message())
}
