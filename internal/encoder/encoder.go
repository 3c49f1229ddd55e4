// internal/encoder/encoder.go
package encoder

import "github.com/unclebandit/tourism-predictor/internal/model"

// Encode turns a customer record into the trained feature layout. Numbers are
// copied unscaled, categoricals appear both as literal text and as indicator
// columns, and every indicator the record does not take is zero. An
// out-of-vocabulary value leaves its whole indicator group at zero.
func Encode(record model.CustomerRecord) FeatureVector {
	return Project(Row(record), trainedSchema)
}

// Row is the record's native cells plus the indicators it switches on.
func Row(record model.CustomerRecord) map[string]Value {
	row := make(map[string]Value, trainedSchema.Len())

	for col, v := range record.Numbers() {
		row[col] = Num(float64(v))
	}

	categories := record.Categories()
	for _, f := range model.Vocabulary() {
		v := categories[f.Column]
		row[f.Column] = Text(v)
		if f.Contains(v) {
			row[IndicatorColumn(f.Column, v)] = Num(1)
		}
	}
	return row
}

// Project selects schema columns from row in schema order. Columns missing
// from row become numeric zero; cells not in the schema are dropped.
func Project(row map[string]Value, schema Schema) FeatureVector {
	columns := schema.Columns()
	values := make([]Value, len(columns))
	for i, c := range columns {
		if v, ok := row[c]; ok {
			values[i] = v
			continue
		}
		values[i] = Num(0)
	}
	return newVector(columns, values)
}
