package calc

import "fmt"

// Percentage operations.
const (
	OpPercentOf   = "percentOf"   // value1% of value2
	OpWhatPercent = "whatPercent" // value1 is what % of value2
	OpIncrease    = "increase"    // value1 increased by value2%
	OpDecrease    = "decrease"    // value1 decreased by value2%
	OpDifference  = "difference"  // % difference from value1 to value2
)

// PercentageOperations lists the valid operation names, for error messages.
var PercentageOperations = []string{OpPercentOf, OpWhatPercent, OpIncrease, OpDecrease, OpDifference}

// PercentageResult holds the outcome of a percentage operation (value type).
type PercentageResult struct {
	Result      float64
	Description string
	Direction   string // "increase"/"decrease"/"unchanged", difference only
}

// Percentage applies one of the five named percentage operations. The
// operation string must be one of PercentageOperations; the edge layer
// validates it. Division by a zero value surfaces as ErrNotFinite.
func Percentage(operation string, value1, value2 float64) (PercentageResult, error) {
	var res PercentageResult

	switch operation {
	case OpPercentOf:
		res.Result = value1 / 100 * value2
		res.Description = fmt.Sprintf("%g%% of %g is %g", value1, value2, Round(res.Result, 4))
	case OpWhatPercent:
		res.Result = value1 / value2 * 100
		res.Description = fmt.Sprintf("%g is %g%% of %g", value1, Round(res.Result, 4), value2)
	case OpIncrease:
		res.Result = value1 * (1 + value2/100)
		res.Description = fmt.Sprintf("%g increased by %g%% is %g", value1, value2, Round(res.Result, 4))
	case OpDecrease:
		res.Result = value1 * (1 - value2/100)
		res.Description = fmt.Sprintf("%g decreased by %g%% is %g", value1, value2, Round(res.Result, 4))
	case OpDifference:
		res.Result = (value2 - value1) / value1 * 100
		switch {
		case res.Result > 0:
			res.Direction = "increase"
		case res.Result < 0:
			res.Direction = "decrease"
		default:
			res.Direction = "unchanged"
		}
		res.Description = fmt.Sprintf("from %g to %g is a %g%% %s", value1, value2, Round(res.Result, 4), res.Direction)
	}

	if !finite(res.Result) {
		return PercentageResult{}, ErrNotFinite
	}
	res.Result = Round(res.Result, 4)
	return res, nil
}
