// internal/model/customer.go
package model

import (
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
)

// CustomerRecord is one form submission.
type CustomerRecord struct {
	Age                      int    `json:"age" yaml:"age"`
	CityTier                 int    `json:"city_tier" yaml:"city_tier"`
	DurationOfPitch          int    `json:"duration_of_pitch" yaml:"duration_of_pitch"`
	NumberOfPersonVisiting   int    `json:"number_of_person_visiting" yaml:"number_of_person_visiting"`
	NumberOfFollowups        int    `json:"number_of_followups" yaml:"number_of_followups"`
	PreferredPropertyStar    int    `json:"preferred_property_star" yaml:"preferred_property_star"`
	NumberOfTrips            int    `json:"number_of_trips" yaml:"number_of_trips"`
	Passport                 int    `json:"passport" yaml:"passport"`
	PitchSatisfactionScore   int    `json:"pitch_satisfaction_score" yaml:"pitch_satisfaction_score"`
	OwnCar                   int    `json:"own_car" yaml:"own_car"`
	NumberOfChildrenVisiting int    `json:"number_of_children_visiting" yaml:"number_of_children_visiting"`
	MonthlyIncome            int    `json:"monthly_income" yaml:"monthly_income"`
	TypeofContact            string `json:"typeof_contact" yaml:"typeof_contact"`
	Occupation               string `json:"occupation" yaml:"occupation"`
	Gender                   string `json:"gender" yaml:"gender"`
	ProductPitched           string `json:"product_pitched" yaml:"product_pitched"`
	MaritalStatus            string `json:"marital_status" yaml:"marital_status"`
	Designation              string `json:"designation" yaml:"designation"`
}

// DefaultCustomerRecord returns the values the form starts with.
func DefaultCustomerRecord() CustomerRecord {
	return CustomerRecord{
		Age:                      30,
		CityTier:                 1,
		DurationOfPitch:          10,
		NumberOfPersonVisiting:   2,
		NumberOfFollowups:        2,
		PreferredPropertyStar:    1,
		NumberOfTrips:            5,
		Passport:                 0,
		PitchSatisfactionScore:   3,
		OwnCar:                   0,
		NumberOfChildrenVisiting: 0,
		MonthlyIncome:            20000,
		TypeofContact:            TypeofContactField.Values[0],
		Occupation:               OccupationField.Values[0],
		Gender:                   GenderField.Values[0],
		ProductPitched:           ProductPitchedField.Values[0],
		MaritalStatus:            MaritalStatusField.Values[0],
		Designation:              DesignationField.Values[0],
	}
}

// Numbers returns the numeric fields keyed by schema column.
func (r CustomerRecord) Numbers() map[string]int {
	return map[string]int{
		"Age":                      r.Age,
		"CityTier":                 r.CityTier,
		"DurationOfPitch":          r.DurationOfPitch,
		"NumberOfPersonVisiting":   r.NumberOfPersonVisiting,
		"NumberOfFollowups":        r.NumberOfFollowups,
		"PreferredPropertyStar":    r.PreferredPropertyStar,
		"NumberOfTrips":            r.NumberOfTrips,
		"Passport":                 r.Passport,
		"PitchSatisfactionScore":   r.PitchSatisfactionScore,
		"OwnCar":                   r.OwnCar,
		"NumberOfChildrenVisiting": r.NumberOfChildrenVisiting,
		"MonthlyIncome":            r.MonthlyIncome,
	}
}

// Categories returns the categorical fields keyed by schema column.
func (r CustomerRecord) Categories() map[string]string {
	return map[string]string{
		TypeofContactField.Column:  r.TypeofContact,
		OccupationField.Column:     r.Occupation,
		GenderField.Column:         r.Gender,
		ProductPitchedField.Column: r.ProductPitched,
		MaritalStatusField.Column:  r.MaritalStatus,
		DesignationField.Column:    r.Designation,
	}
}

// Validate checks numeric bounds and categorical vocabularies. Input sources
// call it before handing a record to the encoder.
func (r CustomerRecord) Validate() error {
	var fields []appErrors.FieldError

	numbers := r.Numbers()
	for _, b := range NumericBounds() {
		v := numbers[b.Column]
		if v < b.Min || v > b.Max {
			fields = append(fields, appErrors.FieldError{
				Field:  b.Column,
				Reason: appErrors.OutOfRange(v, b.Min, b.Max),
			})
		}
	}

	categories := r.Categories()
	for _, f := range Vocabulary() {
		v := categories[f.Column]
		if !f.Contains(v) {
			fields = append(fields, appErrors.FieldError{
				Field:  f.Column,
				Reason: appErrors.NotInVocabulary(v, f.Values),
			})
		}
	}

	if len(fields) > 0 {
		return appErrors.NewValidationError(fields)
	}
	return nil
}
