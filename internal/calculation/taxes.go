package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
)

// TAX MODEL ASSUMPTIONS:
//
// 1. Federal brackets: fixed 2024 tables for single and married filing
//    jointly, applied to gross income with no standard deduction and no
//    inflation indexing across projection years.
// 2. State tax: flat 3% with a full exemption for PA residents, since PA
//    does not tax retirement income. Other jurisdictions can be modeled by
//    swapping the rate.
// 3. Each income stream is taxed at its own effective rate derived from its
//    annualized amount, which is how the monthly engine folds an annual
//    progressive schedule into per-month figures.

// TaxBracket is one marginal federal bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// FederalTaxCalculator applies the 2024 progressive brackets by marginal
// integration. It is a pure lookup: no state, safe for concurrent use.
type FederalTaxCalculator struct {
	Year            int
	BracketsSingle  []TaxBracket
	BracketsMarried []TaxBracket
}

// NewFederalTaxCalculator returns a calculator loaded with the 2024 tables.
func NewFederalTaxCalculator() *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year: 2024,
		BracketsSingle: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(11600), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(11600), decimal.NewFromInt(47150), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(47150), decimal.NewFromInt(100525), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(100525), decimal.NewFromInt(191950), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(191950), decimal.NewFromInt(243725), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(243725), decimal.NewFromInt(609350), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(609350), maxBracketCeiling, decimal.NewFromFloat(0.37)},
		},
		BracketsMarried: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(23200), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(23200), decimal.NewFromInt(94300), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(94300), decimal.NewFromInt(201050), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(201050), decimal.NewFromInt(383900), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(383900), decimal.NewFromInt(487450), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(487450), decimal.NewFromInt(731200), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(731200), maxBracketCeiling, decimal.NewFromFloat(0.37)},
		},
	}
}

// maxBracketCeiling stands in for an unbounded top bracket.
var maxBracketCeiling = decimal.New(1, 15)

// CalculateFederalTax integrates the marginal brackets over annual gross
// income. Non-positive income is taxed at zero.
func (ftc *FederalTaxCalculator) CalculateFederalTax(annualIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if annualIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	brackets := ftc.BracketsSingle
	if status == domain.FilingMarried {
		brackets = ftc.BracketsMarried
	}

	var totalTax decimal.Decimal
	for _, bracket := range brackets {
		if annualIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(annualIncome, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}

	return totalTax
}

// EffectiveRate returns annual tax divided by annual income, the rate the
// engine applies to the monthly slice of that income stream. Zero for
// non-positive income.
func (ftc *FederalTaxCalculator) EffectiveRate(annualIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if annualIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return ftc.CalculateFederalTax(annualIncome, status).Div(annualIncome)
}

// defaultStateRate is the flat levy applied to non-exempt residents.
var defaultStateRate = decimal.NewFromFloat(0.03)

// StateTaxCalculator models the flat state income tax with a residency
// exemption. The single rate is the extension point for other states.
type StateTaxCalculator struct {
	Rate           decimal.Decimal
	ExemptResident bool
}

// NewStateTaxCalculator returns the flat-rate calculator. An exempt
// resident owes nothing.
func NewStateTaxCalculator(exemptResident bool) *StateTaxCalculator {
	return &StateTaxCalculator{Rate: defaultStateRate, ExemptResident: exemptResident}
}

// CalculateStateTax returns the state tax owed on the given income.
func (stc *StateTaxCalculator) CalculateStateTax(income decimal.Decimal) decimal.Decimal {
	if stc.ExemptResident || income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return income.Mul(stc.Rate)
}

// EffectiveRate returns the flat rate, or zero for an exempt resident.
func (stc *StateTaxCalculator) EffectiveRate() decimal.Decimal {
	if stc.ExemptResident {
		return decimal.Zero
	}
	return stc.Rate
}
