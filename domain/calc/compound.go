package calc

import "math"

// CompoundResult holds the outcome of a compound interest projection
// (value type).
type CompoundResult struct {
	FinalAmount         float64
	TotalContributions  float64
	TotalInterestEarned float64
	EffectiveAnnualRate float64 // percent
}

// CompoundInterest projects growth of a lump sum plus optional monthly
// contributions. annualRate is a percentage, compoundingFrequency is
// periods per year (12 = monthly), monthlyContribution is added at each
// compounding period scaled to the monthly amount.
func CompoundInterest(principal, annualRate float64, years float64, compoundingFrequency int, monthlyContribution float64) (CompoundResult, error) {
	n := float64(compoundingFrequency)
	r := annualRate / 100
	periods := n * years
	periodRate := r / n

	// Lump sum: A = P(1+r/n)^(nt)
	lumpSum := principal * math.Pow(1+periodRate, periods)

	// Contributions are stated monthly; convert to per-period
	perPeriod := monthlyContribution * 12 / n

	// Future value of the contribution annuity, with a no-interest
	// fallback since the annuity formula divides by the period rate
	var contribFV float64
	if r == 0 {
		contribFV = perPeriod * periods
	} else {
		contribFV = perPeriod * (math.Pow(1+periodRate, periods) - 1) / periodRate
	}

	final := lumpSum + contribFV
	contributions := principal + perPeriod*periods
	effective := (math.Pow(1+periodRate, n) - 1) * 100

	if !finite(final, contributions, effective) {
		return CompoundResult{}, ErrNotFinite
	}

	return CompoundResult{
		FinalAmount:         Round(final, 2),
		TotalContributions:  Round(contributions, 2),
		TotalInterestEarned: Round(final-contributions, 2),
		EffectiveAnnualRate: Round(effective, 3),
	}, nil
}
