package calc_test

import (
	"testing"

	"github.com/calcstack/calcd/domain/calc"
)

func TestRandomNumbers_IntegerInRange(t *testing.T) {
	draws := []uint32{0, 1, 9, 10, 4294967295, 12345}
	result := calc.RandomNumbers(draws, 1, 10, calc.RandomInteger)

	if len(result.Numbers) != len(draws) {
		t.Fatalf("numbers = %d, want %d", len(result.Numbers), len(draws))
	}
	for i, n := range result.Numbers {
		if n < 1 || n > 10 {
			t.Errorf("numbers[%d] = %v outside [1, 10]", i, n)
		}
		if n != float64(int64(n)) {
			t.Errorf("numbers[%d] = %v not integral", i, n)
		}
	}
}

func TestRandomNumbers_IntegerInclusiveBounds(t *testing.T) {
	// Span of [1,10] is 10; draw 0 hits min, draw 9 hits max
	result := calc.RandomNumbers([]uint32{0, 9}, 1, 10, calc.RandomInteger)

	if result.Numbers[0] != 1 {
		t.Errorf("draw 0 = %v, want 1", result.Numbers[0])
	}
	if result.Numbers[1] != 10 {
		t.Errorf("draw 9 = %v, want 10", result.Numbers[1])
	}
}

func TestRandomNumbers_NegativeRange(t *testing.T) {
	result := calc.RandomNumbers([]uint32{0, 5, 20}, -10, -1, calc.RandomInteger)

	for i, n := range result.Numbers {
		if n < -10 || n > -1 {
			t.Errorf("numbers[%d] = %v outside [-10, -1]", i, n)
		}
	}
}

func TestRandomNumbers_FloatInRange(t *testing.T) {
	draws := []uint32{0, 2147483648, 4294967295}
	result := calc.RandomNumbers(draws, 0, 1, calc.RandomFloat)

	for i, n := range result.Numbers {
		if n < 0 || n > 1 {
			t.Errorf("numbers[%d] = %v outside [0, 1]", i, n)
		}
	}
	if result.Numbers[0] != 0 {
		t.Errorf("draw 0 = %v, want 0", result.Numbers[0])
	}
}

func TestRandomNumbers_Summary(t *testing.T) {
	// Draws 0..4 over [1,5] with span 5 give exactly 1,2,3,4,5
	result := calc.RandomNumbers([]uint32{0, 1, 2, 3, 4}, 1, 5, calc.RandomInteger)

	if result.Sum != 15 {
		t.Errorf("sum = %v, want 15", result.Sum)
	}
	if result.Average != 3 {
		t.Errorf("average = %v, want 3", result.Average)
	}
}
