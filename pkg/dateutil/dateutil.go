package dateutil

import (
	"time"
)

// Age calculates the completed age in years at a given date.
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// MonthSpan returns the number of whole calendar months from one date to
// another, ignoring the day of month. Negative when to precedes from.
func MonthSpan(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// WholeYears returns the number of complete calendar years between two
// month-aligned dates, truncating any partial year. Used for annual COLA
// compounding, which steps once per full year elapsed.
func WholeYears(from, to time.Time) int {
	span := MonthSpan(from, to)
	if span < 0 {
		return 0
	}
	return span / 12
}

// DaysInMonth returns the calendar length of the month containing t.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// FirstOfMonth normalizes t to the first day of its month at midnight UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances a month-aligned date by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Anniversary returns the date years after base. Used for benefit
// eligibility dates (age 62, age 65, claim age).
func Anniversary(base time.Time, years int) time.Time {
	return base.AddDate(years, 0, 0)
}

// Date is a shorthand constructor for a midnight-UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
