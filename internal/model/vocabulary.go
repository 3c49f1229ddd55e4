// internal/model/vocabulary.go
package model

// CategoricalField is a categorical column and its closed vocabulary, in the
// order the training data enumerated it.
type CategoricalField struct {
	Column string
	Values []string
}

// Contains reports whether v is a member of the field's vocabulary.
func (f CategoricalField) Contains(v string) bool {
	for _, s := range f.Values {
		if s == v {
			return true
		}
	}
	return false
}

var (
	TypeofContactField = CategoricalField{
		Column: "TypeofContact",
		Values: []string{"Company Invited", "Self Enquiry"},
	}
	OccupationField = CategoricalField{
		Column: "Occupation",
		Values: []string{"Salaried", "Small Business", "Large Business", "Free Lancer"},
	}
	GenderField = CategoricalField{
		Column: "Gender",
		Values: []string{"Male", "Female"},
	}
	ProductPitchedField = CategoricalField{
		Column: "ProductPitched",
		Values: []string{"Basic", "Standard", "Deluxe", "Super Deluxe", "King"},
	}
	MaritalStatusField = CategoricalField{
		Column: "MaritalStatus",
		Values: []string{"Single", "Married", "Divorced"},
	}
	DesignationField = CategoricalField{
		Column: "Designation",
		Values: []string{"Executive", "Manager", "Senior Manager", "AVP", "VP"},
	}
)

// Vocabulary lists the categorical fields in indicator-group order.
func Vocabulary() []CategoricalField {
	return []CategoricalField{
		TypeofContactField,
		OccupationField,
		GenderField,
		ProductPitchedField,
		MaritalStatusField,
		DesignationField,
	}
}

// NumericBound is the inclusive range accepted for a numeric column.
type NumericBound struct {
	Column string `json:"column"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

// NumericBounds lists the numeric columns in schema order.
func NumericBounds() []NumericBound {
	return []NumericBound{
		{"Age", 18, 100},
		{"CityTier", 1, 3},
		{"DurationOfPitch", 0, 60},
		{"NumberOfPersonVisiting", 1, 10},
		{"NumberOfFollowups", 0, 10},
		{"PreferredPropertyStar", 1, 5},
		{"NumberOfTrips", 0, 50},
		{"Passport", 0, 1},
		{"PitchSatisfactionScore", 1, 5},
		{"OwnCar", 0, 1},
		{"NumberOfChildrenVisiting", 0, 10},
		{"MonthlyIncome", 1000, 100000},
	}
}
