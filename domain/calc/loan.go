package calc

import "math"

// LoanResult holds the outcome of a loan amortization (value type).
type LoanResult struct {
	LoanAmount     float64
	MonthlyPayment float64
	TotalPayment   float64
	TotalInterest  float64
	EffectiveRate  float64 // annual rate actually applied, percent
}

// MortgageResult holds the outcome of a mortgage calculation (value type).
type MortgageResult struct {
	DownPayment    float64
	LoanAmount     float64
	MonthlyPayment float64
	TotalPayment   float64
	TotalInterest  float64
	LoanToValue    float64 // percent of home price financed
}

// annuityPayment computes the fixed monthly payment for a loan of amount
// principal over termMonths at the given monthly rate.
// The zero-rate case degenerates to straight division; the annuity formula
// would divide by zero.
func annuityPayment(principal, monthlyRate float64, termMonths int) float64 {
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}
	growth := math.Pow(1+monthlyRate, float64(termMonths))
	return principal * (monthlyRate * growth) / (growth - 1)
}

// Loan amortizes a fixed-rate loan. annualRate is a percentage (6 means
// 6% APR), downPayment is subtracted from principal before amortization.
func Loan(principal, annualRate float64, termMonths int, downPayment float64) (LoanResult, error) {
	loanAmount := principal - downPayment
	monthlyRate := annualRate / 100 / 12

	monthly := annuityPayment(loanAmount, monthlyRate, termMonths)
	total := monthly * float64(termMonths)

	if !finite(monthly, total) {
		return LoanResult{}, ErrNotFinite
	}

	return LoanResult{
		LoanAmount:     Round(loanAmount, 2),
		MonthlyPayment: Round(monthly, 2),
		TotalPayment:   Round(total, 2),
		TotalInterest:  Round(total-loanAmount, 2),
		EffectiveRate:  Round(annualRate, 3),
	}, nil
}

// Mortgage amortizes a home loan. downPaymentPercent is a percentage of
// homePrice paid up front; the remainder is financed over loanTermYears.
func Mortgage(homePrice, annualRate float64, loanTermYears int, downPaymentPercent float64) (MortgageResult, error) {
	downPayment := homePrice * downPaymentPercent / 100
	loanAmount := homePrice - downPayment
	termMonths := loanTermYears * 12
	monthlyRate := annualRate / 100 / 12

	monthly := annuityPayment(loanAmount, monthlyRate, termMonths)
	total := monthly * float64(termMonths)

	if !finite(monthly, total) {
		return MortgageResult{}, ErrNotFinite
	}

	ltv := 0.0
	if homePrice > 0 {
		ltv = loanAmount / homePrice * 100
	}

	return MortgageResult{
		DownPayment:    Round(downPayment, 2),
		LoanAmount:     Round(loanAmount, 2),
		MonthlyPayment: Round(monthly, 2),
		TotalPayment:   Round(total, 2),
		TotalInterest:  Round(total-loanAmount, 2),
		LoanToValue:    Round(ltv, 1),
	}, nil
}
