package calculation

import (
	"github.com/shopspring/decimal"
)

// fullRetirementAge is the Social Security FRA for the modeled cohort
// (born 1960 or later).
const fullRetirementAge = 67

// ssBenefitsByClaimAge is the default monthly benefit by integer claim age,
// taken from a representative benefit statement. An unmapped age falls back
// to the FRA value.
var ssBenefitsByClaimAge = map[int]decimal.Decimal{
	62: decimal.NewFromInt(2795),
	63: decimal.NewFromInt(2985),
	64: decimal.NewFromInt(3191),
	65: decimal.NewFromInt(3464),
	66: decimal.NewFromInt(3738),
	67: decimal.NewFromInt(4012),
	68: decimal.NewFromInt(4314),
	69: decimal.NewFromInt(4643),
	70: decimal.NewFromInt(5000),
}

// SocialSecurityCalculator resolves monthly benefits by claim age and
// applies the simplified benefit-taxation rule.
type SocialSecurityCalculator struct{}

// NewSocialSecurityCalculator creates a Social Security calculator.
func NewSocialSecurityCalculator() *SocialSecurityCalculator {
	return &SocialSecurityCalculator{}
}

// MonthlyBenefit returns the starting monthly benefit for a claim age.
//
// Without an override the built-in table answers directly; the table values
// already embody the claim-age differences. With an FRA-level override the
// SSA actuarial adjustment is applied instead: 5/9 of 1% per month for the
// first 36 months claimed early, 5/12 of 1% for each month beyond 36, and
// 8% per year of delayed credit past FRA.
func (ssc *SocialSecurityCalculator) MonthlyBenefit(claimAge int, fraBenefitOverride *decimal.Decimal) decimal.Decimal {
	if fraBenefitOverride == nil {
		if benefit, ok := ssBenefitsByClaimAge[claimAge]; ok {
			return benefit
		}
		return ssBenefitsByClaimAge[fullRetirementAge]
	}

	base := *fraBenefitOverride
	switch {
	case claimAge < fullRetirementAge:
		monthsEarly := int64(fullRetirementAge-claimAge) * 12
		reduction := earlyClaimReduction(monthsEarly)
		return base.Mul(decimal.NewFromInt(1).Sub(reduction))
	case claimAge > fullRetirementAge:
		yearsDelayed := int64(claimAge - fullRetirementAge)
		credit := decimal.NewFromFloat(0.08).Mul(decimal.NewFromInt(yearsDelayed))
		return base.Mul(decimal.NewFromInt(1).Add(credit))
	default:
		return base
	}
}

// earlyClaimReduction computes the total benefit reduction for claiming
// monthsEarly before FRA: 5/9% per month up to 36 months, 5/12% beyond.
func earlyClaimReduction(monthsEarly int64) decimal.Decimal {
	fiveNinths := decimal.NewFromInt(5).Div(decimal.NewFromInt(9)).Div(decimal.NewFromInt(100))
	if monthsEarly <= 36 {
		return fiveNinths.Mul(decimal.NewFromInt(monthsEarly))
	}
	fiveTwelfths := decimal.NewFromInt(5).Div(decimal.NewFromInt(12)).Div(decimal.NewFromInt(100))
	return fiveNinths.Mul(decimal.NewFromInt(36)).
		Add(fiveTwelfths.Mul(decimal.NewFromInt(monthsEarly - 36)))
}

// Combined-income thresholds for the simplified taxable-portion rule,
// expressed against total monthly retirement income.
var (
	ssTaxThreshold85 = decimal.NewFromInt(5000)
	ssTaxThreshold50 = decimal.NewFromInt(3000)
)

// TaxablePortion returns the share of the benefit subject to federal tax
// for a given combined monthly income: 85% above $5,000, 50% above $3,000,
// otherwise none.
func (ssc *SocialSecurityCalculator) TaxablePortion(combinedMonthlyIncome decimal.Decimal) decimal.Decimal {
	switch {
	case combinedMonthlyIncome.GreaterThan(ssTaxThreshold85):
		return decimal.NewFromFloat(0.85)
	case combinedMonthlyIncome.GreaterThan(ssTaxThreshold50):
		return decimal.NewFromFloat(0.50)
	default:
		return decimal.Zero
	}
}
