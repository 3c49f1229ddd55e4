// internal/encoder/vector.go
package encoder

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a single feature cell. Passthrough categorical columns carry text,
// everything else is numeric.
type Value struct {
	Text   string
	Number float64
	IsText bool
}

func Num(v float64) Value { return Value{Number: v} }
func Text(s string) Value { return Value{Text: s, IsText: true} }

func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'g', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Number)
}

// FeatureVector is one encoded row. It is never mutated after construction.
type FeatureVector struct {
	columns []string
	values  []Value
	index   map[string]int
}

func newVector(columns []string, values []Value) FeatureVector {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return FeatureVector{columns: columns, values: values, index: index}
}

// Columns returns a copy of the column names in order.
func (v FeatureVector) Columns() []string {
	out := make([]string, len(v.columns))
	copy(out, v.columns)
	return out
}

func (v FeatureVector) Len() int { return len(v.columns) }

func (v FeatureVector) Value(i int) Value { return v.values[i] }

// Get returns the value of a named column.
func (v FeatureVector) Get(column string) (Value, bool) {
	i, ok := v.index[column]
	if !ok {
		return Value{}, false
	}
	return v.values[i], true
}

// Number returns a numeric column, or 0 if absent or textual.
func (v FeatureVector) Number(column string) float64 {
	val, ok := v.Get(column)
	if !ok || val.IsText {
		return 0
	}
	return val.Number
}

// Text returns a passthrough column, or "" if absent or numeric.
func (v FeatureVector) Text(column string) string {
	val, ok := v.Get(column)
	if !ok || !val.IsText {
		return ""
	}
	return val.Text
}

// Equal reports whether both vectors have the same columns in the same order
// with identical values.
func (v FeatureVector) Equal(other FeatureVector) bool {
	if len(v.columns) != len(other.columns) {
		return false
	}
	for i := range v.columns {
		if v.columns[i] != other.columns[i] || v.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the vector as an object whose keys keep column order.
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range v.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		val, err := v.values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
