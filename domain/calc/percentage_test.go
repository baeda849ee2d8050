package calc_test

import (
	"errors"
	"testing"

	"github.com/calcstack/calcd/domain/calc"
)

func TestPercentage_PercentOfScenario(t *testing.T) {
	result, err := calc.Percentage(calc.OpPercentOf, 15, 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Result != 37.5 {
		t.Errorf("result = %v, want 37.5", result.Result)
	}
}

func TestPercentage_Operations(t *testing.T) {
	tests := []struct {
		op     string
		v1, v2 float64
		want   float64
	}{
		{calc.OpWhatPercent, 50, 200, 25},
		{calc.OpIncrease, 100, 10, 110},
		{calc.OpDecrease, 100, 10, 90},
		{calc.OpDifference, 100, 150, 50},
		{calc.OpDifference, 200, 100, -50},
	}

	for _, tt := range tests {
		result, err := calc.Percentage(tt.op, tt.v1, tt.v2)
		if err != nil {
			t.Errorf("%s(%v, %v): unexpected error: %v", tt.op, tt.v1, tt.v2, err)
			continue
		}
		if result.Result != tt.want {
			t.Errorf("%s(%v, %v) = %v, want %v", tt.op, tt.v1, tt.v2, result.Result, tt.want)
		}
	}
}

func TestPercentage_DifferenceDirection(t *testing.T) {
	up, _ := calc.Percentage(calc.OpDifference, 100, 150)
	if up.Direction != "increase" {
		t.Errorf("direction = %q, want increase", up.Direction)
	}

	down, _ := calc.Percentage(calc.OpDifference, 150, 100)
	if down.Direction != "decrease" {
		t.Errorf("direction = %q, want decrease", down.Direction)
	}

	flat, _ := calc.Percentage(calc.OpDifference, 100, 100)
	if flat.Direction != "unchanged" {
		t.Errorf("direction = %q, want unchanged", flat.Direction)
	}
}

func TestPercentage_DivisionByZero(t *testing.T) {
	// whatPercent of zero and difference from zero are undefined
	if _, err := calc.Percentage(calc.OpWhatPercent, 50, 0); !errors.Is(err, calc.ErrNotFinite) {
		t.Errorf("whatPercent(50, 0) err = %v, want ErrNotFinite", err)
	}
	if _, err := calc.Percentage(calc.OpDifference, 0, 100); !errors.Is(err, calc.ErrNotFinite) {
		t.Errorf("difference(0, 100) err = %v, want ErrNotFinite", err)
	}
}
