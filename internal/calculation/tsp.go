package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
)

// tspFundReturns holds the historical average annual return assumption for
// each TSP fund.
var tspFundReturns = struct {
	G, F, C, S, I decimal.Decimal
}{
	G: decimal.NewFromFloat(0.025),
	F: decimal.NewFromFloat(0.035),
	C: decimal.NewFromFloat(0.07),
	S: decimal.NewFromFloat(0.08),
	I: decimal.NewFromFloat(0.065),
}

// WeightedFundGrowth returns the allocation-weighted annual growth rate.
// The second return is false when no allocation is supplied, in which case
// the caller falls back to the scalar growth parameter.
func WeightedFundGrowth(alloc *domain.FundAllocation) (decimal.Decimal, bool) {
	if alloc == nil {
		return decimal.Zero, false
	}
	hundred := decimal.NewFromInt(100)
	growth := alloc.GFundPercent.Div(hundred).Mul(tspFundReturns.G).
		Add(alloc.FFundPercent.Div(hundred).Mul(tspFundReturns.F)).
		Add(alloc.CFundPercent.Div(hundred).Mul(tspFundReturns.C)).
		Add(alloc.SFundPercent.Div(hundred).Mul(tspFundReturns.S)).
		Add(alloc.IFundPercent.Div(hundred).Mul(tspFundReturns.I))
	return growth, true
}

// TSPCalculator handles contribution matching and pay-period conversion.
type TSPCalculator struct{}

// NewTSPCalculator creates a TSP calculator.
func NewTSPCalculator() *TSPCalculator {
	return &TSPCalculator{}
}

// BiweeklyMatch returns the agency match for one pay period: an automatic
// 1% of pay, dollar-for-dollar on the first 3% contributed, and fifty cents
// on the dollar for the next 2%. The match tops out at 4% of pay once the
// employee contributes 5% or more. Returns zero when matching is disabled
// or pay is non-positive.
func (tc *TSPCalculator) BiweeklyMatch(biweeklySalary, biweeklyContribution decimal.Decimal, matchingEnabled bool) decimal.Decimal {
	if !matchingEnabled || biweeklySalary.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	contributionPct := biweeklyContribution.Div(biweeklySalary).Mul(decimal.NewFromInt(100))

	match := biweeklySalary.Mul(decimal.NewFromFloat(0.01))

	three := decimal.NewFromInt(3)
	if contributionPct.GreaterThanOrEqual(three) {
		match = match.Add(biweeklySalary.Mul(decimal.NewFromFloat(0.03)))
	} else {
		match = match.Add(biweeklySalary.Mul(contributionPct.Div(decimal.NewFromInt(100))))
	}

	five := decimal.NewFromInt(5)
	if contributionPct.GreaterThanOrEqual(five) {
		match = match.Add(biweeklySalary.Mul(decimal.NewFromFloat(0.01)))
	} else if contributionPct.GreaterThan(three) {
		over := contributionPct.Sub(three).Div(decimal.NewFromInt(100))
		match = match.Add(biweeklySalary.Mul(over).Mul(decimal.NewFromFloat(0.5)))
	}

	return match
}

// MonthlyContribution converts a combined per-pay-period amount to a
// monthly amount: 26 pay periods spread over 12 months.
func (tc *TSPCalculator) MonthlyContribution(biweeklyTotal decimal.Decimal) decimal.Decimal {
	return biweeklyTotal.Mul(decimal.NewFromInt(26)).Div(decimal.NewFromInt(12))
}

// WithdrawalPolicy derives the fraction of the TSP balance drawn in one
// month. Implementations are stateless.
type WithdrawalPolicy interface {
	Name() string
	// MonthlyRate returns the draw fraction for the month given the
	// current balance and the month's required minimum distribution.
	MonthlyRate(balance, monthlyRMD decimal.Decimal) decimal.Decimal
}

// FixedPercentagePolicy draws the configured annual rate divided by twelve,
// regardless of RMD.
type FixedPercentagePolicy struct {
	AnnualRate decimal.Decimal
}

func (p FixedPercentagePolicy) Name() string { return string(domain.WithdrawFixedPercentage) }

func (p FixedPercentagePolicy) MonthlyRate(balance, monthlyRMD decimal.Decimal) decimal.Decimal {
	return p.AnnualRate.Div(decimal.NewFromInt(12))
}

// RMDPolicy draws exactly the required minimum distribution.
type RMDPolicy struct{}

func (p RMDPolicy) Name() string { return string(domain.WithdrawIRSRMD) }

func (p RMDPolicy) MonthlyRate(balance, monthlyRMD decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return monthlyRMD.Div(balance)
}

// GreaterOfBothPolicy draws whichever of the fixed rate and the RMD rate is
// larger. This is the default strategy.
type GreaterOfBothPolicy struct {
	AnnualRate decimal.Decimal
}

func (p GreaterOfBothPolicy) Name() string { return string(domain.WithdrawGreaterOfBoth) }

func (p GreaterOfBothPolicy) MonthlyRate(balance, monthlyRMD decimal.Decimal) decimal.Decimal {
	fixed := FixedPercentagePolicy{AnnualRate: p.AnnualRate}.MonthlyRate(balance, monthlyRMD)
	rmd := RMDPolicy{}.MonthlyRate(balance, monthlyRMD)
	return decimal.Max(fixed, rmd)
}

// PolicyFor maps the scenario's strategy selection to its implementation.
// Unrecognized values get the default greater-of-both policy.
func PolicyFor(strategy domain.WithdrawalStrategy, annualRate decimal.Decimal) WithdrawalPolicy {
	switch strategy {
	case domain.WithdrawFixedPercentage:
		return FixedPercentagePolicy{AnnualRate: annualRate}
	case domain.WithdrawIRSRMD:
		return RMDPolicy{}
	default:
		return GreaterOfBothPolicy{AnnualRate: annualRate}
	}
}
