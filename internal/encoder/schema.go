// internal/encoder/schema.go
package encoder

import "github.com/unclebandit/tourism-predictor/internal/model"

// passthroughOrder is the order the trained schema carries the unencoded
// categorical columns in. It differs from the indicator group order.
var passthroughOrder = []string{
	model.DesignationField.Column,
	model.ProductPitchedField.Column,
	model.MaritalStatusField.Column,
	model.TypeofContactField.Column,
	model.GenderField.Column,
	model.OccupationField.Column,
}

// Schema is the ordered list of columns a classifier expects.
type Schema struct {
	columns []string
	index   map[string]int
}

func NewSchema(columns []string) Schema {
	cols := make([]string, len(columns))
	copy(cols, columns)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return Schema{columns: cols, index: index}
}

func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s Schema) Len() int { return len(s.columns) }

func (s Schema) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

// IndicatorColumn names the dummy column for one vocabulary value.
func IndicatorColumn(field, value string) string {
	return field + "_" + value
}

// NumericColumns returns the raw numeric and boolean columns.
func NumericColumns() []string {
	bounds := model.NumericBounds()
	cols := make([]string, len(bounds))
	for i, b := range bounds {
		cols[i] = b.Column
	}
	return cols
}

// PassthroughColumns returns the unencoded categorical columns.
func PassthroughColumns() []string {
	out := make([]string, len(passthroughOrder))
	copy(out, passthroughOrder)
	return out
}

// IndicatorColumns returns one column per (field, vocabulary value) pair.
func IndicatorColumns() []string {
	var cols []string
	for _, f := range model.Vocabulary() {
		for _, v := range f.Values {
			cols = append(cols, IndicatorColumn(f.Column, v))
		}
	}
	return cols
}

var trainedSchema = func() Schema {
	var cols []string
	cols = append(cols, NumericColumns()...)
	cols = append(cols, passthroughOrder...)
	cols = append(cols, IndicatorColumns()...)
	return NewSchema(cols)
}()

// TrainedSchema is the 39-column layout the tourism classifier was fitted on:
// numeric fields, passthrough categoricals, then indicator groups.
func TrainedSchema() Schema { return trainedSchema }
