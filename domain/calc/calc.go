// Package calc provides pure calculation functions for the calculator
// endpoints. All functions are deterministic - same input always produces
// same output. Validation of raw request fields happens at the edge; these
// functions assume inputs already satisfy their documented domains and
// return errors only for conditions that depend on value combinations
// (non-finite results, empty domains).
package calc

import (
	"errors"
	"math"
)

// ErrNotFinite is returned when a formula produces Inf or NaN.
var ErrNotFinite = errors.New("result is not a finite number")

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}

// finite reports whether all values are finite numbers.
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
