package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/pkg/dateutil"
)

// FERSCalculator computes the FERS annuity and the special retirement
// supplement paid to eligible retirees until age 62.
type FERSCalculator struct{}

// NewFERSCalculator creates a FERS calculator.
func NewFERSCalculator() *FERSCalculator {
	return &FERSCalculator{}
}

// bonus multiplier requires retiring at 62 or later with 20+ years.
var (
	multiplierStandard = decimal.NewFromFloat(0.010)
	multiplierEnhanced = decimal.NewFromFloat(0.011)
	bonusServiceFloor  = decimal.NewFromInt(20)
)

// Multiplier returns the annuity percentage factor: 1.1% when the employee
// retires at age 62 or later with at least 20 years of credited service,
// otherwise 1.0%.
func (fc *FERSCalculator) Multiplier(birthDate, retirementDate time.Time, serviceYears decimal.Decimal) decimal.Decimal {
	age62 := dateutil.Anniversary(birthDate, 62)
	if !retirementDate.Before(age62) && serviceYears.GreaterThanOrEqual(bonusServiceFloor) {
		return multiplierEnhanced
	}
	return multiplierStandard
}

// GrossAnnuity returns the annual annuity before tax:
// multiplier x service years x high-3, reduced by the survivor election.
func (fc *FERSCalculator) GrossAnnuity(high3, serviceYears, multiplier, survivorReduction decimal.Decimal) decimal.Decimal {
	return multiplier.Mul(serviceYears).Mul(high3).
		Mul(decimal.NewFromInt(1).Sub(survivorReduction))
}

// Supplement returns the monthly FERS special retirement supplement:
// 1/40th of the age-62 Social Security benefit per year of service, capped
// at 40 years. Eligibility (under 62, 20+ years at retirement) is the
// caller's check.
func (fc *FERSCalculator) Supplement(serviceYears, age62Benefit decimal.Decimal) decimal.Decimal {
	capped := decimal.Min(serviceYears, decimal.NewFromInt(40))
	return age62Benefit.Mul(capped).Div(decimal.NewFromInt(40))
}

// ApplyCOLA compounds an annual cost-of-living adjustment over the number
// of complete years elapsed. Partial years earn nothing; the adjustment
// steps once per anniversary.
func ApplyCOLA(base, annualRate decimal.Decimal, wholeYears int) decimal.Decimal {
	if wholeYears <= 0 {
		return base
	}
	factor := decimal.NewFromInt(1).Add(annualRate).Pow(decimal.NewFromInt(int64(wholeYears)))
	return base.Mul(factor)
}
