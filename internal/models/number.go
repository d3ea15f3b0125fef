package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float that may legitimately be NaN (missing) or infinite
// (zero-denominator ratio). encoding/json rejects both, so it gets its own codec.
type Number float64

// Missing returns the NaN used for unmatched join values
func Missing() Number {
	return Number(math.NaN())
}

// IsNaN reports whether n is missing
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// MarshalJSON writes NaN as null and infinities as "inf"/"-inf"
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte("null"), nil
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts the forms written by MarshalJSON
func (n *Number) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*n = Missing()
		return nil
	case `"inf"`:
		*n = Number(math.Inf(1))
		return nil
	case `"-inf"`:
		*n = Number(math.Inf(-1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// CSV formats n for CSV output: NaN is an empty cell, infinities are inf/-inf
func (n Number) CSV() string {
	return FormatFloatCSV(float64(n))
}

// FormatFloatCSV formats a float the way the CSV exports expect
func FormatFloatCSV(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
