// Package records defines the generic record representation shared by the
// parsers: a map of field name to decoded JSON value.
//
// The parsers decode with json.Decoder.UseNumber, so numeric fields arrive as
// json.Number. The typed accessors below perform the minimal coercion the
// pipeline needs and return the type's zero value when a field is absent, nil,
// or of an unexpected shape. That matches the record-source contract: missing
// scalars read as numeric 0 / empty string, never as an error.
package records

import "encoding/json"

// Record is a single parsed record: field name -> decoded JSON value.
type Record map[string]any

// String returns the string value for key. json.Number values are returned in
// their literal form, so a numeric identifier (e.g. a userId logged as 10
// rather than "10") still reads as a string. Missing, nil, or non-scalar
// values return "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Int64 returns the integer value for key, or 0 when the field is missing or
// not numeric. Integral values serialized with a fraction part (e.g. 583.0)
// are truncated.
func (r Record) Int64(key string) int64 {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
		return 0
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Float64 returns the float value for key, or 0 when the field is missing or
// not numeric.
func (r Record) Float64(key string) float64 {
	switch v := r[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return 0
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}
