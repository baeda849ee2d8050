package calc

// Unit systems accepted by BMI.
const (
	UnitMetric   = "metric"
	UnitImperial = "imperial"
)

// Conversion factors for imperial input normalization.
const (
	poundsToKg     = 0.453592
	inchesToMeters = 0.0254
)

// BMIResult holds the outcome of a BMI calculation (value type).
type BMIResult struct {
	BMI          float64
	Category     string
	HealthyRange HealthyRange
}

// HealthyRange is the weight range (in the input unit system) that would
// put the subject in the normal BMI band.
type HealthyRange struct {
	Min  float64
	Max  float64
	Unit string
}

// BMI category thresholds.
const (
	bmiUnderweight = 18.5
	bmiNormal      = 25.0
	bmiOverweight  = 30.0
)

// BMI computes body mass index. Weight is kg (metric) or pounds
// (imperial); height is cm (metric) or inches (imperial).
// The boundary values land in the upper category: 18.5 is "Normal weight",
// 25 is "Overweight", 30 is "Obese".
func BMI(weight, height float64, unit string) (BMIResult, error) {
	weightKg := weight
	heightM := height / 100
	if unit == UnitImperial {
		weightKg = weight * poundsToKg
		heightM = height * inchesToMeters
	}

	bmi := weightKg / (heightM * heightM)

	// Healthy weight range back in the caller's units
	minKg := bmiUnderweight * heightM * heightM
	maxKg := bmiNormal * heightM * heightM
	rangeUnit := "kg"
	rangeMin, rangeMax := minKg, maxKg
	if unit == UnitImperial {
		rangeUnit = "lbs"
		rangeMin = minKg / poundsToKg
		rangeMax = maxKg / poundsToKg
	}

	if !finite(bmi, minKg, maxKg) {
		return BMIResult{}, ErrNotFinite
	}

	rounded := Round(bmi, 1)
	return BMIResult{
		BMI:      rounded,
		Category: BMICategory(rounded),
		HealthyRange: HealthyRange{
			Min:  Round(rangeMin, 1),
			Max:  Round(rangeMax, 1),
			Unit: rangeUnit,
		},
	}, nil
}

// BMICategory maps a BMI value to its descriptive category.
func BMICategory(bmi float64) string {
	switch {
	case bmi < bmiUnderweight:
		return "Underweight"
	case bmi < bmiNormal:
		return "Normal weight"
	case bmi < bmiOverweight:
		return "Overweight"
	default:
		return "Obese"
	}
}
