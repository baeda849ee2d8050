package datecalc_test

import (
	"testing"
	"time"

	"github.com/calcstack/calcd/domain/datecalc"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBetween_Simple(t *testing.T) {
	age := datecalc.Between(date(1990, time.June, 15), date(2024, time.June, 15))

	if age.Years != 34 || age.Months != 0 || age.Days != 0 {
		t.Errorf("age = %+v, want 34y 0m 0d", age)
	}
}

func TestBetween_DayBorrow(t *testing.T) {
	// Target day before birth day borrows the prior month's length
	age := datecalc.Between(date(1990, time.June, 20), date(2024, time.August, 10))

	if age.Years != 34 || age.Months != 1 || age.Days != 21 {
		t.Errorf("age = %+v, want 34y 1m 21d", age)
	}
}

func TestBetween_MonthBorrow(t *testing.T) {
	// Target month before birth month borrows a year
	age := datecalc.Between(date(1990, time.November, 10), date(2024, time.March, 10))

	if age.Years != 33 || age.Months != 4 || age.Days != 0 {
		t.Errorf("age = %+v, want 33y 4m 0d", age)
	}
}

func TestBetween_DayBeforeBirthday(t *testing.T) {
	age := datecalc.Between(date(2000, time.May, 20), date(2024, time.May, 19))

	if age.Years != 23 {
		t.Errorf("years = %d, want 23 (birthday not yet reached)", age.Years)
	}
}

func TestCalculate_Totals(t *testing.T) {
	result := datecalc.Calculate(date(2024, time.January, 1), date(2024, time.January, 8))

	if result.TotalDays != 7 {
		t.Errorf("totalDays = %d, want 7", result.TotalDays)
	}
	if result.TotalWeeks != 1 {
		t.Errorf("totalWeeks = %d, want 1", result.TotalWeeks)
	}
	if result.TotalHours != 168 {
		t.Errorf("totalHours = %d, want 168", result.TotalHours)
	}
}

func TestCalculate_DayOfBirth(t *testing.T) {
	// 2024-01-01 was a Monday
	result := datecalc.Calculate(date(2024, time.January, 1), date(2024, time.June, 1))
	if result.DayOfBirth != "Monday" {
		t.Errorf("dayOfBirth = %q, want Monday", result.DayOfBirth)
	}
}

func TestNextBirthday_RollsForward(t *testing.T) {
	birth := date(1990, time.March, 10)

	// Birthday already passed this year
	next := datecalc.NextBirthday(birth, date(2024, time.June, 1))
	if !next.Equal(date(2025, time.March, 10)) {
		t.Errorf("next = %v, want 2025-03-10", next)
	}

	// Birthday still ahead this year
	next = datecalc.NextBirthday(birth, date(2024, time.February, 1))
	if !next.Equal(date(2024, time.March, 10)) {
		t.Errorf("next = %v, want 2024-03-10", next)
	}

	// Birthday today counts as this year's occurrence
	next = datecalc.NextBirthday(birth, date(2024, time.March, 10))
	if !next.Equal(date(2024, time.March, 10)) {
		t.Errorf("next = %v, want 2024-03-10", next)
	}
}

func TestZodiac(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.January, 1, "Capricorn"},
		{time.January, 20, "Aquarius"},
		{time.February, 18, "Aquarius"},
		{time.February, 19, "Pisces"},
		{time.March, 21, "Aries"},
		{time.July, 22, "Cancer"},
		{time.July, 23, "Leo"},
		{time.December, 21, "Sagittarius"},
		{time.December, 22, "Capricorn"},
		{time.December, 31, "Capricorn"},
	}

	for _, tt := range tests {
		if got := datecalc.Zodiac(tt.month, tt.day); got != tt.want {
			t.Errorf("Zodiac(%v %d) = %q, want %q", tt.month, tt.day, got, tt.want)
		}
	}
}
