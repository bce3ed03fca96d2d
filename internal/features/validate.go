package features

import (
	"fmt"
	"strconv"
	"strings"
)

// Vector holds the validated numeric values in declared field order.
type Vector []float64

// ParseError reports a field whose entry could not be read as a number.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %q is not a number", e.Field, e.Value)
}

// RangeError reports a field whose value lies outside its inclusive range.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid %s: must be between %g and %g", e.Field, e.Min, e.Max)
}

// Validate converts raw form entries into a Vector. Fields are checked in
// declared order and the first failure aborts: a missing or non-numeric entry
// yields a ParseError, an out-of-range value a RangeError. On failure no
// partial vector is returned.
func Validate(entries map[string]string) (Vector, error) {
	vector := make(Vector, 0, len(fields))
	for _, spec := range fields {
		raw, ok := entries[spec.Name]
		if !ok {
			return nil, &ParseError{Field: spec.Name, Value: ""}
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &ParseError{Field: spec.Name, Value: raw}
		}
		if value < spec.Min || value > spec.Max {
			return nil, &RangeError{Field: spec.Name, Value: value, Min: spec.Min, Max: spec.Max}
		}
		vector = append(vector, value)
	}
	return vector, nil
}
