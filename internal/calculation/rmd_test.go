package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyRMD(t *testing.T) {
	calc := NewRMDCalculator()
	cent := decimal.NewFromFloat(0.01)

	tests := []struct {
		name     string
		age      int
		balance  decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "No RMD before start age",
			age:      72,
			balance:  decimal.NewFromInt(265000),
			expected: decimal.Zero,
		},
		{
			// 265000 / 26.5 = 10000 per year.
			name:     "First RMD year",
			age:      73,
			balance:  decimal.NewFromInt(265000),
			expected: decimal.NewFromFloat(833.33),
		},
		{
			// 192000 / 16.0 = 12000 per year.
			name:     "Mid table",
			age:      85,
			balance:  decimal.NewFromInt(192000),
			expected: decimal.NewFromInt(1000),
		},
		{
			// Last table entry: 24000 / 2.0 = 12000 per year.
			name:     "Age 120",
			age:      120,
			balance:  decimal.NewFromInt(24000),
			expected: decimal.NewFromInt(1000),
		},
		{
			// Beyond the table the fallback factor of 15 applies.
			name:     "Past the table",
			age:      121,
			balance:  decimal.NewFromInt(180000),
			expected: decimal.NewFromInt(1000),
		},
		{
			name:     "Zero balance owes nothing",
			age:      75,
			balance:  decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "Negative balance owes nothing",
			age:      75,
			balance:  decimal.NewFromInt(-100),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rmd := calc.MonthlyRMD(tt.age, tt.balance)
			diff := rmd.Sub(tt.expected).Abs()
			assert.True(t, diff.LessThan(cent),
				"Expected %s, got %s", tt.expected, rmd)
		})
	}
}

func TestLifeExpectancyFactor(t *testing.T) {
	calc := NewRMDCalculator()

	assert.True(t, calc.LifeExpectancyFactor(73).Equal(decimal.NewFromFloat(26.5)))
	assert.True(t, calc.LifeExpectancyFactor(90).Equal(decimal.NewFromFloat(12.2)))
	assert.True(t, calc.LifeExpectancyFactor(150).Equal(decimal.NewFromFloat(15.0)))
}
