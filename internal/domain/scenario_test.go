package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/retire/pkg/dateutil"
)

func validParams() ScenarioParameters {
	p := ScenarioParameters{
		Name:               "base",
		BirthDate:          dateutil.Date(1963, time.March, 15),
		HireDate:           dateutil.Date(1988, time.June, 6),
		RetirementDate:     dateutil.Date(2025, time.June, 15),
		High3Salary:        decimal.NewFromInt(100000),
		TSPStartingBalance: decimal.NewFromInt(400000),
		SickLeaveHours:     decimal.NewFromInt(1044),
		SSStartAge:         67,
		SurvivorElection:   SurvivorNone,
		COLA:               RateFromFloat(0.02),
		TSPGrowth:          RateFromFloat(0.05),
		TSPWithdrawalRate:  decimal.NewFromFloat(0.04),
		WithdrawalStrategy: WithdrawGreaterOfBoth,
		PAResident:         true,
		FilingStatus:       FilingSingle,
		FEHBPremium:        decimal.NewFromInt(200),
		FEHBGrowthRate:     decimal.NewFromFloat(0.05),
		ProjectionYears:    25,
	}
	return p
}

func TestValidateAcceptsBaseline(t *testing.T) {
	p := validParams()
	assert.NoError(t, p.Validate())
}

func TestValidateAggregatesEveryViolation(t *testing.T) {
	p := validParams()
	p.High3Salary = decimal.NewFromInt(-1)
	p.TSPStartingBalance = decimal.NewFromInt(-5)
	p.SSStartAge = 75
	p.TSPWithdrawalRate = decimal.NewFromFloat(-0.04)
	p.ProjectionYears = 0

	err := p.Validate()
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected aggregated ValidationError, got %T", err)
	assert.Len(t, verr.Violations, 5)
	assert.Contains(t, err.Error(), "high-3 salary cannot be negative")
	assert.Contains(t, err.Error(), "Social Security start age must be between 62 and 70")
	assert.Contains(t, err.Error(), "projection years must be at least 1")
}

func TestValidateDateOrdering(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScenarioParameters)
		message string
	}{
		{
			"retirement before hire",
			func(p *ScenarioParameters) { p.RetirementDate = dateutil.Date(1980, time.January, 1) },
			"retirement date must be after hire date",
		},
		{
			"birth after hire",
			func(p *ScenarioParameters) { p.BirthDate = dateutil.Date(1990, time.January, 1) },
			"birth date must be before hire date",
		},
		{
			"missing dates",
			func(p *ScenarioParameters) { p.BirthDate = time.Time{} },
			"birth date, hire date, and retirement date are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateNegativeRatePath(t *testing.T) {
	p := validParams()
	p.COLA = RatePath([]decimal.Decimal{
		decimal.NewFromFloat(0.02),
		decimal.NewFromFloat(-0.01),
	})

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLA cannot be negative")
}

func TestValidateFundAllocation(t *testing.T) {
	p := validParams()
	p.FundAllocation = &FundAllocation{
		GFundPercent: decimal.NewFromInt(50),
		CFundPercent: decimal.NewFromInt(40),
	}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fund allocation must sum to 100")

	p.FundAllocation.SFundPercent = decimal.NewFromInt(10)
	assert.NoError(t, p.Validate())
}

func TestNormalizeDefaults(t *testing.T) {
	p := ScenarioParameters{}
	p.Normalize()

	assert.Equal(t, FilingSingle, p.FilingStatus)
	assert.Equal(t, SurvivorNone, p.SurvivorElection)
	assert.Equal(t, WithdrawGreaterOfBoth, p.WithdrawalStrategy)
}

func TestSurvivorReduction(t *testing.T) {
	assert.True(t, SurvivorNone.Reduction().IsZero())
	assert.True(t, SurvivorPartial.Reduction().Equal(decimal.NewFromFloat(0.05)))
	assert.True(t, SurvivorFull.Reduction().Equal(decimal.NewFromFloat(0.10)))
}

func TestSimulationWindow(t *testing.T) {
	p := validParams()

	assert.Equal(t, dateutil.Date(2025, time.January, 1), p.SimulationStart())
	assert.Equal(t, dateutil.Date(2050, time.June, 1), p.SimulationEnd())
	// Jan 2025 through Jun 2050 inclusive.
	assert.Equal(t, 306, p.MonthCount())

	explicit := dateutil.Date(2023, time.March, 10)
	p.StartDate = &explicit
	assert.Equal(t, dateutil.Date(2023, time.March, 1), p.SimulationStart())
}

func TestEffectiveCurrentSalary(t *testing.T) {
	p := validParams()
	assert.True(t, p.EffectiveCurrentSalary().Equal(p.High3Salary))

	salary := decimal.NewFromInt(112000)
	p.CurrentSalary = &salary
	assert.True(t, p.EffectiveCurrentSalary().Equal(salary))
}

func TestSSClaimDate(t *testing.T) {
	p := validParams()
	assert.Equal(t, dateutil.Date(2030, time.March, 15), p.SSClaimDate())
}
