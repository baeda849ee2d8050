// Package convert provides table-driven unit conversion.
// Multiplicative categories convert through a base unit; temperature is a
// distinct non-multiplicative path normalized through Celsius.
package convert

import (
	"fmt"
	"math"
	"sort"

	"github.com/calcstack/calcd/domain/calc"
)

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// CategoryTemperature is handled outside the factor tables.
const CategoryTemperature = "temperature"

// factors holds multiplicative conversion factors relative to a base unit
// per category (meter, gram, liter, square meter, meters/second, byte).
var factors = map[string]map[string]float64{
	"length": {
		"millimeter": 0.001,
		"centimeter": 0.01,
		"meter":      1,
		"kilometer":  1000,
		"inch":       0.0254,
		"foot":       0.3048,
		"yard":       0.9144,
		"mile":       1609.344,
	},
	"weight": {
		"milligram": 0.000001,
		"gram":      0.001,
		"kilogram":  1,
		"tonne":     1000,
		"ounce":     0.028349523125,
		"pound":     0.45359237,
		"stone":     6.35029318,
	},
	"volume": {
		"milliliter": 0.001,
		"liter":      1,
		"gallon":     3.785411784,
		"quart":      0.946352946,
		"pint":       0.473176473,
		"cup":        0.2365882365,
		"fluidOunce": 0.0295735295625,
	},
	"area": {
		"squareMeter":     1,
		"squareKilometer": 1000000,
		"squareFoot":      0.09290304,
		"squareYard":      0.83612736,
		"acre":            4046.8564224,
		"hectare":         10000,
	},
	"speed": {
		"metersPerSecond":   1,
		"kilometersPerHour": 0.2777777777777778,
		"milesPerHour":      0.44704,
		"knot":              0.5144444444444445,
	},
	"data": {
		"byte":     1,
		"kilobyte": 1024,
		"megabyte": 1048576,
		"gigabyte": 1073741824,
		"terabyte": 1099511627776,
	},
}

// temperatureUnits are the valid units of the temperature category.
var temperatureUnits = map[string]bool{
	"celsius":    true,
	"fahrenheit": true,
	"kelvin":     true,
}

// Result holds the outcome of a conversion (value type).
type Result struct {
	Value   float64
	Unit    string
	Formula string
}

// Categories returns the valid category names, sorted, for error messages.
func Categories() []string {
	cats := make([]string, 0, len(factors)+1)
	for c := range factors {
		cats = append(cats, c)
	}
	cats = append(cats, CategoryTemperature)
	sort.Strings(cats)
	return cats
}

// Units returns the valid unit names of a category, sorted.
func Units(category string) []string {
	if category == CategoryTemperature {
		return []string{"celsius", "fahrenheit", "kelvin"}
	}
	table, ok := factors[category]
	if !ok {
		return nil
	}
	units := make([]string, 0, len(table))
	for u := range table {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// ValidCategory reports whether category names a known conversion table.
func ValidCategory(category string) bool {
	if category == CategoryTemperature {
		return true
	}
	_, ok := factors[category]
	return ok
}

// ValidUnit reports whether unit belongs to category.
func ValidUnit(category, unit string) bool {
	if category == CategoryTemperature {
		return temperatureUnits[unit]
	}
	_, ok := factors[category][unit]
	return ok
}

// Convert converts value from one unit to another within a category.
// Both units must belong to the category; the edge layer validates them.
// Values large enough to overflow the factor math surface as
// calc.ErrNotFinite.
func Convert(value float64, from, to, category string) (Result, error) {
	if category == CategoryTemperature {
		return convertTemperature(value, from, to)
	}

	table := factors[category]
	out := value * table[from] / table[to]
	if !finite(out) {
		return Result{}, calc.ErrNotFinite
	}
	return Result{
		Value:   calc.Round(out, 6),
		Unit:    to,
		Formula: fmt.Sprintf("1 %s = %g %s", from, calc.Round(table[from]/table[to], 6), to),
	}, nil
}

// convertTemperature normalizes to Celsius first, then to the target
// scale; F<->K falls out of the two linear formulas.
func convertTemperature(value float64, from, to string) (Result, error) {
	celsius := value
	switch from {
	case "fahrenheit":
		celsius = (value - 32) * 5 / 9
	case "kelvin":
		celsius = value - 273.15
	}

	out := celsius
	var formula string
	switch to {
	case "fahrenheit":
		out = celsius*9/5 + 32
		formula = "°F = °C × 9/5 + 32"
	case "kelvin":
		out = celsius + 273.15
		formula = "K = °C + 273.15"
	default:
		formula = "°C = (°F − 32) × 5/9"
		if from == "kelvin" {
			formula = "°C = K − 273.15"
		}
	}

	if !finite(out) {
		return Result{}, calc.ErrNotFinite
	}
	return Result{
		Value:   calc.Round(out, 4),
		Unit:    to,
		Formula: formula,
	}, nil
}
