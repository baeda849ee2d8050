package calc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/calcstack/calcd/domain/calc"
)

func TestDiscount(t *testing.T) {
	result, err := calc.Discount(100, 20, 0)
	if err != nil {
		t.Fatalf("Discount error: %v", err)
	}

	if result.DiscountAmount != 20 {
		t.Errorf("discountAmount = %v, want 20", result.DiscountAmount)
	}
	if result.DiscountedPrice != 80 {
		t.Errorf("discountedPrice = %v, want 80", result.DiscountedPrice)
	}
	if result.FinalPrice != 80 {
		t.Errorf("finalPrice = %v, want 80", result.FinalPrice)
	}
}

func TestDiscount_WithTax(t *testing.T) {
	// Tax applies post-discount
	result, _ := calc.Discount(100, 20, 10)

	if result.TaxAmount != 8 { // 10% of 80
		t.Errorf("taxAmount = %v, want 8", result.TaxAmount)
	}
	if result.FinalPrice != 88 {
		t.Errorf("finalPrice = %v, want 88", result.FinalPrice)
	}
	if result.TotalSavings != 20 {
		t.Errorf("totalSavings = %v, want 20", result.TotalSavings)
	}
}

func TestDiscount_FullDiscount(t *testing.T) {
	// At 100% discount the final price is exactly the tax amount
	result, _ := calc.Discount(50, 100, 8)

	if result.DiscountedPrice != 0 {
		t.Errorf("discountedPrice = %v, want 0", result.DiscountedPrice)
	}
	if result.FinalPrice != result.TaxAmount {
		t.Errorf("finalPrice = %v, want taxAmount %v", result.FinalPrice, result.TaxAmount)
	}
}

func TestDiscount_OverflowRejected(t *testing.T) {
	// discounted price * tax overflows float64
	if _, err := calc.Discount(math.MaxFloat64, 0, 100); !errors.Is(err, calc.ErrNotFinite) {
		t.Errorf("Discount overflow err = %v, want ErrNotFinite", err)
	}
}

func TestTip(t *testing.T) {
	result, err := calc.Tip(120, 15, 4)
	if err != nil {
		t.Fatalf("Tip error: %v", err)
	}

	if result.TipAmount != 18 {
		t.Errorf("tipAmount = %v, want 18", result.TipAmount)
	}
	if result.TotalAmount != 138 {
		t.Errorf("totalAmount = %v, want 138", result.TotalAmount)
	}
	if result.PerPerson != 34.5 {
		t.Errorf("perPerson = %v, want 34.5", result.PerPerson)
	}
	if result.TipPerPerson != 4.5 {
		t.Errorf("tipPerPerson = %v, want 4.5", result.TipPerPerson)
	}
}

func TestTip_SuggestionsAlwaysPresent(t *testing.T) {
	result, _ := calc.Tip(100, 18, 1)

	if len(result.Suggestions) != 4 {
		t.Fatalf("suggestions = %d, want 4", len(result.Suggestions))
	}
	wantPercents := []float64{10, 15, 20, 25}
	for i, s := range result.Suggestions {
		if s.Percent != wantPercents[i] {
			t.Errorf("suggestion[%d].percent = %v, want %v", i, s.Percent, wantPercents[i])
		}
		if s.TipAmount != wantPercents[i] { // 100 bill makes this direct
			t.Errorf("suggestion[%d].tipAmount = %v, want %v", i, s.TipAmount, wantPercents[i])
		}
	}
}

func TestTip_OverflowRejected(t *testing.T) {
	// The suggestion tiers overflow even when the requested percent is 0
	if _, err := calc.Tip(math.MaxFloat64, 0, 1); !errors.Is(err, calc.ErrNotFinite) {
		t.Errorf("Tip overflow err = %v, want ErrNotFinite", err)
	}
}
