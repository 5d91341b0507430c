package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/retire/internal/calculation"
	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

const singleScenarioYAML = `
scenario:
  name: base
  birth_date: 1963-03-15
  hire_date: 1988-06-06
  retirement_date: 2025-06-15
  high_3_salary: 100000
  tsp_starting_balance: 400000
  sick_leave_hours: 1044
  ss_start_age: 67
  cola: 0.02
  tsp_growth: [0.05, 0.06]
  tsp_withdrawal_rate: 0.04
  withdrawal_strategy: fixed_percentage
  pa_resident: true
  filing_status: single
  fehb_premium: 200
  fehb_growth_rate: 0.05
  projection_years: 25

expenses:
  pre_retirement_monthly: 5000
  post_retirement_monthly: 4000
  inflation_rate: 0.025

monte_carlo:
  num_paths: 500
  cola_mean: 0.02
  cola_std_dev: 0.005
  growth_mean: 0.05
  growth_std_dev: 0.1
  distribution: lognormal
  seed: 42
`

const pairScenarioYAML = `
scenarios:
  - name: retire at 62
    birth_date: 1963-03-15
    hire_date: 1988-06-06
    retirement_date: 2025-06-15
    high_3_salary: 100000
    tsp_starting_balance: 400000
    ss_start_age: 67
    cola: 0.02
    tsp_growth: 0.05
    tsp_withdrawal_rate: 0.04
    projection_years: 25
  - birth_date: 1963-03-15
    hire_date: 1988-06-06
    retirement_date: 2028-06-15
    high_3_salary: 110000
    tsp_starting_balance: 400000
    ss_start_age: 67
    cola: 0.02
    tsp_growth: 0.05
    tsp_withdrawal_rate: 0.04
    projection_years: 25
`

func TestParseSingleScenario(t *testing.T) {
	file, err := NewInputParser().Parse([]byte(singleScenarioYAML))
	require.NoError(t, err)

	require.NotNil(t, file.Scenario)
	sc := file.Primary()
	assert.Equal(t, "base", sc.Name)
	assert.Equal(t, dateutil.Date(1963, time.March, 15), sc.BirthDate)
	assert.Equal(t, dateutil.Date(2025, time.June, 15), sc.RetirementDate)
	assert.True(t, sc.High3Salary.Equal(decimal.NewFromInt(100000)))
	assert.True(t, sc.PAResident)
	assert.Equal(t, domain.WithdrawFixedPercentage, sc.WithdrawalStrategy)

	// tsp_growth was a sequence: a month-indexed path holding its last rate.
	assert.True(t, sc.TSPGrowth.IsPath())
	assert.True(t, sc.TSPGrowth.At(0).Equal(decimal.NewFromFloat(0.05)))
	assert.True(t, sc.TSPGrowth.At(10).Equal(decimal.NewFromFloat(0.06)))
	assert.False(t, sc.COLA.IsPath())

	require.NotNil(t, file.Expenses)
	assert.True(t, file.Expenses.PreRetirementMonthly.Equal(decimal.NewFromInt(5000)))
	assert.True(t, file.Expenses.InflationRate.Equal(decimal.NewFromFloat(0.025)))

	require.NotNil(t, file.MonteCarlo)
	assert.Equal(t, 500, file.MonteCarlo.NumPaths)
	require.NotNil(t, file.MonteCarlo.Seed)
	assert.Equal(t, int64(42), *file.MonteCarlo.Seed)

	cfg := file.MonteCarlo.Config()
	assert.Equal(t, calculation.DistributionLogNormal, cfg.Distribution)
	assert.True(t, cfg.GrowthStdDev.Equal(decimal.NewFromFloat(0.1)))

	_, _, err = file.Pair()
	assert.Error(t, err, "a single-scenario file cannot feed a comparison")
}

func TestParseScenarioPair(t *testing.T) {
	file, err := NewInputParser().Parse([]byte(pairScenarioYAML))
	require.NoError(t, err)

	a, b, err := file.Pair()
	require.NoError(t, err)
	assert.Equal(t, "retire at 62", a.Name)
	assert.Equal(t, "scenario-2", b.Name, "unnamed entries get positional names")
	assert.Equal(t, dateutil.Date(2028, time.June, 15), b.RetirementDate)

	assert.Equal(t, "retire at 62", file.Primary().Name)

	// Normalize ran during validation.
	assert.Equal(t, domain.WithdrawGreaterOfBoth, a.WithdrawalStrategy)
	assert.Equal(t, domain.FilingSingle, a.FilingStatus)
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("{}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario defined")
}

func TestParseRejectsBothForms(t *testing.T) {
	doc := singleScenarioYAML + `
scenarios:
  - name: extra
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestParseRejectsThreeScenarios(t *testing.T) {
	doc := pairScenarioYAML + `  - name: third
    birth_date: 1963-03-15
    hire_date: 1988-06-06
    retirement_date: 2030-06-15
    high_3_salary: 100000
    ss_start_age: 67
    tsp_withdrawal_rate: 0.04
    projection_years: 25
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most two scenarios")
}

func TestParseSurfacesScenarioViolations(t *testing.T) {
	doc := `
scenario:
  name: broken
  birth_date: 1963-03-15
  hire_date: 1988-06-06
  retirement_date: 2025-06-15
  high_3_salary: -1
  ss_start_age: 50
  projection_years: 25
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "broken"`)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Violations, "high-3 salary cannot be negative")
	assert.Contains(t, verr.Violations, "Social Security start age must be between 62 and 70")
}

func TestParseRejectsBadMonteCarloBlock(t *testing.T) {
	doc := `
scenario:
  birth_date: 1963-03-15
  hire_date: 1988-06-06
  retirement_date: 2025-06-15
  high_3_salary: 100000
  ss_start_age: 67
  tsp_withdrawal_rate: 0.04
  projection_years: 25

monte_carlo:
  num_paths: 100
  distribution: cauchy
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monte_carlo:")
	assert.Contains(t, err.Error(), "cauchy")
}

func TestParseRejectsNegativeExpenses(t *testing.T) {
	doc := `
scenario:
  birth_date: 1963-03-15
  hire_date: 1988-06-06
  retirement_date: 2025-06-15
  high_3_salary: 100000
  ss_start_age: 67
  tsp_withdrawal_rate: 0.04
  projection_years: 25

expenses:
  pre_retirement_monthly: -100
  post_retirement_monthly: 4000
  inflation_rate: 0.02
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expenses:")
}

func TestParseDefaultsSingleScenarioName(t *testing.T) {
	doc := `
scenario:
  birth_date: 1963-03-15
  hire_date: 1988-06-06
  retirement_date: 2025-06-15
  high_3_salary: 100000
  ss_start_age: 67
  tsp_withdrawal_rate: 0.04
  projection_years: 25
`
	file, err := NewInputParser().Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "scenario", file.Primary().Name)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("scenario: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(singleScenarioYAML), 0o644))

	file, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "base", file.Primary().Name)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
