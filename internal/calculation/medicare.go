package calculation

import (
	"github.com/shopspring/decimal"
)

// 2024 standard monthly premiums. Part D uses a plan average; IRMAA
// surcharges are not modeled.
var (
	medicarePartBPremium = decimal.NewFromFloat(174.70)
	medicarePartDPremium = decimal.NewFromFloat(35.00)
)

// medicareEligibilityAge is the qualifying age for premium deductions.
const medicareEligibilityAge = 65

// MedicareCalculator charges the combined Part B + Part D premium from
// eligibility age onward.
type MedicareCalculator struct{}

// NewMedicareCalculator creates a Medicare calculator.
func NewMedicareCalculator() *MedicareCalculator {
	return &MedicareCalculator{}
}

// MonthlyPremium returns the combined premium owed for the month, zero
// before age 65 or when Medicare is excluded from the scenario.
func (mc *MedicareCalculator) MonthlyPremium(age int, include bool) decimal.Decimal {
	if !include || age < medicareEligibilityAge {
		return decimal.Zero
	}
	return medicarePartBPremium.Add(medicarePartDPremium)
}
