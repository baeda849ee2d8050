package calc_test

import (
	"math"
	"testing"

	"github.com/calcstack/calcd/domain/calc"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestLoan_Scenario(t *testing.T) {
	// $20,000 at 6% APR over 60 months with $2,000 down
	result, err := calc.Loan(20000, 6, 60, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.LoanAmount != 18000 {
		t.Errorf("loanAmount = %v, want 18000", result.LoanAmount)
	}
	if !approxEqual(result.MonthlyPayment, 347.99, 0.01) {
		t.Errorf("monthlyPayment = %v, want ~347.99", result.MonthlyPayment)
	}
	if !approxEqual(result.TotalPayment, 20879.42, 0.5) {
		t.Errorf("totalPayment = %v, want ~20879.42", result.TotalPayment)
	}
	if !approxEqual(result.TotalInterest, 2879.42, 0.5) {
		t.Errorf("totalInterest = %v, want ~2879.42", result.TotalInterest)
	}
}

func TestLoan_ZeroRate(t *testing.T) {
	// Zero rate must not divide by zero and equals straight division
	result, err := calc.Loan(12000, 0, 24, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MonthlyPayment != 500 {
		t.Errorf("monthlyPayment = %v, want 500", result.MonthlyPayment)
	}
	if result.TotalInterest != 0 {
		t.Errorf("totalInterest = %v, want 0", result.TotalInterest)
	}
}

func TestMortgage(t *testing.T) {
	// $300,000 home, 20% down, 30 years at 5%
	result, err := calc.Mortgage(300000, 5, 30, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DownPayment != 60000 {
		t.Errorf("downPayment = %v, want 60000", result.DownPayment)
	}
	if result.LoanAmount != 240000 {
		t.Errorf("loanAmount = %v, want 240000", result.LoanAmount)
	}
	if !approxEqual(result.MonthlyPayment, 1288.37, 0.01) {
		t.Errorf("monthlyPayment = %v, want ~1288.37", result.MonthlyPayment)
	}
	if result.LoanToValue != 80 {
		t.Errorf("loanToValue = %v, want 80", result.LoanToValue)
	}
}

func TestMortgage_NoDownPayment(t *testing.T) {
	result, err := calc.Mortgage(100000, 0, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.LoanToValue != 100 {
		t.Errorf("loanToValue = %v, want 100", result.LoanToValue)
	}
	if !approxEqual(result.MonthlyPayment, 100000.0/120, 0.01) {
		t.Errorf("monthlyPayment = %v, want %v", result.MonthlyPayment, 100000.0/120)
	}
}
