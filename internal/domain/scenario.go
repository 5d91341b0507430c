package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/pkg/dateutil"
)

// FilingStatus selects the federal tax bracket table.
type FilingStatus string

const (
	FilingSingle  FilingStatus = "single"
	FilingMarried FilingStatus = "married"
)

// Valid reports whether the filing status is one of the modeled statuses.
// Head-of-household and the other IRS statuses are intentionally not modeled.
func (fs FilingStatus) Valid() bool {
	return fs == FilingSingle || fs == FilingMarried
}

// SurvivorElection is the FERS survivor annuity election, which reduces the
// gross annuity in exchange for a survivor benefit.
type SurvivorElection string

const (
	SurvivorNone    SurvivorElection = "none"
	SurvivorPartial SurvivorElection = "partial"
	SurvivorFull    SurvivorElection = "full"
)

// Reduction returns the annuity reduction for the election: 0%, 5%, or 10%.
func (se SurvivorElection) Reduction() decimal.Decimal {
	switch se {
	case SurvivorPartial:
		return decimal.NewFromFloat(0.05)
	case SurvivorFull:
		return decimal.NewFromFloat(0.10)
	default:
		return decimal.Zero
	}
}

// Valid reports whether the election is a recognized tier.
func (se SurvivorElection) Valid() bool {
	return se == SurvivorNone || se == SurvivorPartial || se == SurvivorFull
}

// WithdrawalStrategy selects how the monthly TSP withdrawal rate is derived.
type WithdrawalStrategy string

const (
	// WithdrawFixedPercentage draws the configured annual rate divided by 12.
	WithdrawFixedPercentage WithdrawalStrategy = "fixed_percentage"
	// WithdrawIRSRMD draws exactly the required minimum distribution.
	WithdrawIRSRMD WithdrawalStrategy = "irs_rmd"
	// WithdrawGreaterOfBoth draws whichever of the two is larger.
	WithdrawGreaterOfBoth WithdrawalStrategy = "greater_of_both"
)

// Valid reports whether the strategy is recognized.
func (ws WithdrawalStrategy) Valid() bool {
	switch ws {
	case WithdrawFixedPercentage, WithdrawIRSRMD, WithdrawGreaterOfBoth:
		return true
	}
	return false
}

// FundAllocation splits the TSP balance across the five funds, in percent.
// When present it replaces the scalar growth assumption with the weighted
// historical fund returns.
type FundAllocation struct {
	GFundPercent decimal.Decimal `yaml:"g_fund_percent" json:"g_fund_percent"`
	FFundPercent decimal.Decimal `yaml:"f_fund_percent" json:"f_fund_percent"`
	CFundPercent decimal.Decimal `yaml:"c_fund_percent" json:"c_fund_percent"`
	SFundPercent decimal.Decimal `yaml:"s_fund_percent" json:"s_fund_percent"`
	IFundPercent decimal.Decimal `yaml:"i_fund_percent" json:"i_fund_percent"`
}

// Total returns the sum of the five allocation percentages.
func (fa FundAllocation) Total() decimal.Decimal {
	return fa.GFundPercent.Add(fa.FFundPercent).Add(fa.CFundPercent).Add(fa.SFundPercent).Add(fa.IFundPercent)
}

// ScenarioParameters is the complete, immutable input to one simulation run.
// The engine derives everything else from this record; there is no ambient
// state, so identical parameter values always produce identical output.
type ScenarioParameters struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	BirthDate      time.Time `yaml:"birth_date" json:"birth_date"`
	HireDate       time.Time `yaml:"hire_date" json:"hire_date"`
	RetirementDate time.Time `yaml:"retirement_date" json:"retirement_date"`

	High3Salary        decimal.Decimal `yaml:"high_3_salary" json:"high_3_salary"`
	TSPStartingBalance decimal.Decimal `yaml:"tsp_starting_balance" json:"tsp_starting_balance"`
	SickLeaveHours     decimal.Decimal `yaml:"sick_leave_hours" json:"sick_leave_hours"`

	SSStartAge        int              `yaml:"ss_start_age" json:"ss_start_age"`
	SSBenefitOverride *decimal.Decimal `yaml:"ss_benefit_override,omitempty" json:"ss_benefit_override,omitempty"` // monthly benefit at FRA 67; table lookup when unset
	SurvivorElection  SurvivorElection `yaml:"survivor_election" json:"survivor_election"`

	COLA      RateInput `yaml:"cola" json:"cola"`             // annual pension/SS COLA
	TSPGrowth RateInput `yaml:"tsp_growth" json:"tsp_growth"` // annual TSP return

	TSPWithdrawalRate  decimal.Decimal    `yaml:"tsp_withdrawal_rate" json:"tsp_withdrawal_rate"` // annual
	WithdrawalStrategy WithdrawalStrategy `yaml:"withdrawal_strategy" json:"withdrawal_strategy"`

	PAResident   bool         `yaml:"pa_resident" json:"pa_resident"` // PA exempts retirement income; modeled as full state-tax exemption
	FilingStatus FilingStatus `yaml:"filing_status" json:"filing_status"`

	FEHBPremium    decimal.Decimal `yaml:"fehb_premium" json:"fehb_premium"` // monthly
	FEHBGrowthRate decimal.Decimal `yaml:"fehb_growth_rate" json:"fehb_growth_rate"`

	ProjectionYears int `yaml:"projection_years" json:"projection_years"` // horizon past retirement

	BiweeklyTSPContribution decimal.Decimal `yaml:"biweekly_tsp_contribution" json:"biweekly_tsp_contribution"`
	MatchingContribution    bool            `yaml:"matching_contribution" json:"matching_contribution"`

	IncludeMedicare bool             `yaml:"include_medicare" json:"include_medicare"`
	FundAllocation  *FundAllocation  `yaml:"fund_allocation,omitempty" json:"fund_allocation,omitempty"`
	CurrentSalary   *decimal.Decimal `yaml:"current_salary,omitempty" json:"current_salary,omitempty"` // defaults to high-3

	// StartDate pins the first simulated month. When unset the simulation
	// starts at January 1 of the retirement year.
	StartDate *time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"`
}

// Normalize fills defaulted fields in place: filing status, survivor
// election, and withdrawal strategy fall back to their documented defaults
// when empty. Called by the config loader and the engine before validation.
func (p *ScenarioParameters) Normalize() {
	if p.FilingStatus == "" {
		p.FilingStatus = FilingSingle
	}
	if p.SurvivorElection == "" {
		p.SurvivorElection = SurvivorNone
	}
	if p.WithdrawalStrategy == "" {
		p.WithdrawalStrategy = WithdrawGreaterOfBoth
	}
}

// SimulationStart returns the first simulated month: the explicit start date
// normalized to its month, or January 1 of the retirement year.
func (p *ScenarioParameters) SimulationStart() time.Time {
	if p.StartDate != nil && !p.StartDate.IsZero() {
		return dateutil.FirstOfMonth(*p.StartDate)
	}
	return dateutil.Date(p.RetirementDate.Year(), time.January, 1)
}

// SimulationEnd returns the last simulated month, the month containing
// retirement date + projection years.
func (p *ScenarioParameters) SimulationEnd() time.Time {
	return dateutil.FirstOfMonth(p.RetirementDate.AddDate(p.ProjectionYears, 0, 0))
}

// MonthCount returns the number of rows a simulation of these parameters
// produces, first and last month inclusive.
func (p *ScenarioParameters) MonthCount() int {
	n := dateutil.MonthSpan(p.SimulationStart(), p.SimulationEnd()) + 1
	if n < 0 {
		return 0
	}
	return n
}

// EffectiveCurrentSalary returns the salary used for contribution matching,
// defaulting to the high-3 when no current salary is supplied.
func (p *ScenarioParameters) EffectiveCurrentSalary() decimal.Decimal {
	if p.CurrentSalary != nil {
		return *p.CurrentSalary
	}
	return p.High3Salary
}

// SSClaimDate returns the date the Social Security benefit begins.
func (p *ScenarioParameters) SSClaimDate() time.Time {
	return dateutil.Anniversary(p.BirthDate, p.SSStartAge)
}

// Validate checks every input invariant and returns a single aggregated
// ValidationError listing all violations, or nil. The engine refuses to run
// on any violation, so callers never see a partially simulated result.
func (p *ScenarioParameters) Validate() error {
	verr := &ValidationError{}

	if p.High3Salary.IsNegative() {
		verr.Add("high-3 salary cannot be negative")
	}
	if p.TSPStartingBalance.IsNegative() {
		verr.Add("starting TSP balance cannot be negative")
	}
	if p.SickLeaveHours.IsNegative() {
		verr.Add("sick leave hours cannot be negative")
	}
	if p.SSStartAge < 62 || p.SSStartAge > 70 {
		verr.Add("Social Security start age must be between 62 and 70")
	}
	if p.SSBenefitOverride != nil && p.SSBenefitOverride.IsNegative() {
		verr.Add("Social Security benefit override cannot be negative")
	}
	if p.COLA.AnyNegative() {
		verr.Add("COLA cannot be negative")
	}
	if p.TSPGrowth.AnyNegative() {
		verr.Add("TSP growth cannot be negative")
	}
	if p.TSPWithdrawalRate.IsNegative() {
		verr.Add("TSP withdrawal rate cannot be negative")
	}
	if p.FEHBPremium.IsNegative() {
		verr.Add("FEHB premium cannot be negative")
	}
	if p.FEHBGrowthRate.IsNegative() {
		verr.Add("FEHB premium growth cannot be negative")
	}
	if p.BiweeklyTSPContribution.IsNegative() {
		verr.Add("biweekly TSP contribution cannot be negative")
	}
	if p.CurrentSalary != nil && p.CurrentSalary.IsNegative() {
		verr.Add("current salary cannot be negative")
	}
	if p.ProjectionYears < 1 {
		verr.Add("projection years must be at least 1")
	}

	if p.BirthDate.IsZero() || p.HireDate.IsZero() || p.RetirementDate.IsZero() {
		verr.Add("birth date, hire date, and retirement date are required")
	} else {
		if !p.BirthDate.Before(p.HireDate) {
			verr.Add("birth date must be before hire date")
		}
		if !p.HireDate.Before(p.RetirementDate) {
			verr.Add("retirement date must be after hire date")
		}
		if p.StartDate != nil && p.SimulationStart().After(p.SimulationEnd()) {
			verr.Add("start date must fall before the end of the projection")
		}
	}

	if p.FilingStatus != "" && !p.FilingStatus.Valid() {
		verr.Add("filing status must be single or married")
	}
	if p.SurvivorElection != "" && !p.SurvivorElection.Valid() {
		verr.Add("survivor election must be none, partial, or full")
	}
	if p.WithdrawalStrategy != "" && !p.WithdrawalStrategy.Valid() {
		verr.Add("withdrawal strategy must be fixed_percentage, irs_rmd, or greater_of_both")
	}

	if p.FundAllocation != nil {
		if !p.FundAllocation.Total().Equal(decimal.NewFromInt(100)) {
			verr.Add("fund allocation must sum to 100")
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
