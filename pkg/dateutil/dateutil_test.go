package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	birth := Date(1963, time.March, 15)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"day before birthday", Date(2025, time.March, 14), 61},
		{"on birthday", Date(2025, time.March, 15), 62},
		{"day after birthday", Date(2025, time.March, 16), 62},
		{"earlier month", Date(2025, time.January, 1), 61},
		{"later month", Date(2025, time.December, 1), 62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(birth, tt.at))
		})
	}
}

func TestMonthSpan(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same month", Date(2025, time.June, 1), Date(2025, time.June, 30), 0},
		{"adjacent months", Date(2025, time.June, 1), Date(2025, time.July, 1), 1},
		{"across year end", Date(2025, time.November, 1), Date(2026, time.January, 1), 2},
		{"exactly one year", Date(2025, time.June, 1), Date(2026, time.June, 1), 12},
		{"reversed", Date(2026, time.January, 1), Date(2025, time.November, 1), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthSpan(tt.from, tt.to))
		})
	}
}

func TestWholeYears(t *testing.T) {
	retire := Date(2025, time.June, 1)

	assert.Equal(t, 0, WholeYears(retire, Date(2025, time.June, 1)))
	assert.Equal(t, 0, WholeYears(retire, Date(2026, time.May, 1)))
	assert.Equal(t, 1, WholeYears(retire, Date(2026, time.June, 1)))
	assert.Equal(t, 10, WholeYears(retire, Date(2035, time.July, 1)))
	assert.Equal(t, 0, WholeYears(retire, Date(2024, time.June, 1)), "negative spans clamp to zero")
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(Date(2025, time.January, 10)))
	assert.Equal(t, 28, DaysInMonth(Date(2025, time.February, 1)))
	assert.Equal(t, 29, DaysInMonth(Date(2024, time.February, 1)), "leap year")
	assert.Equal(t, 30, DaysInMonth(Date(2025, time.September, 30)))
}

func TestFirstOfMonthAndAddMonths(t *testing.T) {
	d := Date(2025, time.September, 17)
	first := FirstOfMonth(d)
	assert.Equal(t, Date(2025, time.September, 1), first)

	assert.Equal(t, Date(2026, time.January, 1), AddMonths(first, 4))
	assert.Equal(t, Date(2024, time.December, 1), AddMonths(first, -9))

	// Month arithmetic stays on the 1st even past short months.
	assert.Equal(t, Date(2025, time.March, 1), AddMonths(Date(2025, time.January, 31), 2))
}

func TestSameMonth(t *testing.T) {
	assert.True(t, SameMonth(Date(2025, time.June, 1), Date(2025, time.June, 28)))
	assert.False(t, SameMonth(Date(2025, time.June, 1), Date(2025, time.July, 1)))
	assert.False(t, SameMonth(Date(2024, time.June, 1), Date(2025, time.June, 1)))
}

func TestAnniversary(t *testing.T) {
	birth := Date(1963, time.March, 15)
	assert.Equal(t, Date(2025, time.March, 15), Anniversary(birth, 62))
	assert.Equal(t, Date(2028, time.March, 15), Anniversary(birth, 65))
}
