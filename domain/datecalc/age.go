// Package datecalc provides pure civil calendar arithmetic for the age
// endpoint: years/months/days subtraction with borrowing, elapsed totals,
// next birthday, and zodiac lookup.
package datecalc

import "time"

// Age is a civil calendar difference (value type).
type Age struct {
	Years  int
	Months int
	Days   int
}

// Result holds the full outcome of an age calculation (value type).
type Result struct {
	Age               Age
	TotalDays         int64
	TotalWeeks        int64
	TotalMonths       int64
	TotalHours        int64
	NextBirthday      time.Time
	DaysUntilBirthday int
	ZodiacSign        string
	DayOfBirth        string
}

// zodiacBoundaries maps each sign to the month/day its period starts.
// Ordered by start date through the year; Capricorn wraps the year end.
var zodiacBoundaries = []struct {
	month time.Month
	day   int
	sign  string
}{
	{time.January, 20, "Aquarius"},
	{time.February, 19, "Pisces"},
	{time.March, 21, "Aries"},
	{time.April, 20, "Taurus"},
	{time.May, 21, "Gemini"},
	{time.June, 21, "Cancer"},
	{time.July, 23, "Leo"},
	{time.August, 23, "Virgo"},
	{time.September, 23, "Libra"},
	{time.October, 23, "Scorpio"},
	{time.November, 22, "Sagittarius"},
	{time.December, 22, "Capricorn"},
}

// Between computes the calendar difference from birth to target with the
// standard borrow algorithm: a negative day component borrows the prior
// month's day count, a negative month component borrows a year.
func Between(birth, target time.Time) Age {
	years := target.Year() - birth.Year()
	months := int(target.Month()) - int(birth.Month())
	days := target.Day() - birth.Day()

	if days < 0 {
		// Days in the month preceding target
		prior := time.Date(target.Year(), target.Month(), 0, 0, 0, 0, 0, time.UTC)
		days += prior.Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	return Age{Years: years, Months: months, Days: days}
}

// Calculate produces the full age breakdown for a birth date as of target.
// birth must not be after target; the edge layer validates that.
func Calculate(birth, target time.Time) Result {
	age := Between(birth, target)

	elapsed := target.Sub(birth)
	totalDays := int64(elapsed.Hours() / 24)
	totalHours := int64(elapsed.Hours())

	next := NextBirthday(birth, target)

	return Result{
		Age:               age,
		TotalDays:         totalDays,
		TotalWeeks:        totalDays / 7,
		TotalMonths:       int64(age.Years)*12 + int64(age.Months),
		TotalHours:        totalHours,
		NextBirthday:      next,
		DaysUntilBirthday: int(next.Sub(target).Hours() / 24),
		ZodiacSign:        Zodiac(birth.Month(), birth.Day()),
		DayOfBirth:        birth.Weekday().String(),
	}
}

// NextBirthday returns the next occurrence of the birth month/day on or
// after target, rolling forward one year if this year's has passed.
func NextBirthday(birth, target time.Time) time.Time {
	next := time.Date(target.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	targetDay := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(targetDay) {
		next = time.Date(target.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next
}

// Zodiac returns the western zodiac sign for a month/day.
func Zodiac(month time.Month, day int) string {
	sign := "Capricorn" // before Jan 20
	for _, b := range zodiacBoundaries {
		if month > b.month || (month == b.month && day >= b.day) {
			sign = b.sign
		}
	}
	return sign
}
