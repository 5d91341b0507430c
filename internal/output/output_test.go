package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

func projectionFixture() *domain.SimulationResult {
	start := dateutil.Date(2025, time.July, 1)

	var records []domain.MonthlyRecord
	for i := 0; i < 6; i++ {
		rec := domain.MonthlyRecord{
			Date:        dateutil.AddMonths(start, i),
			Salary:      decimal.NewFromInt(5000),
			FEHBPremium: decimal.NewFromInt(-100),
			TSPBalance:  decimal.NewFromInt(400000),
		}
		rec.TotalIncome = rec.ComponentSum()
		records = append(records, rec)
	}
	for i := 6; i < 14; i++ {
		rec := domain.MonthlyRecord{
			Date:            dateutil.AddMonths(start, i),
			FERSAnnuity:     decimal.NewFromInt(3000),
			TSPWithdrawal:   decimal.NewFromInt(1000),
			MedicarePremium: decimal.NewFromInt(-200),
			TSPBalance:      decimal.NewFromInt(int64(400000 - 2000*(i-5))),
		}
		rec.TotalIncome = rec.ComponentSum()
		records = append(records, rec)
	}

	return &domain.SimulationResult{
		ScenarioName:     "base",
		Records:          records,
		CumulativeIncome: domain.AccumulateIncome(records),
	}
}

func monteCarloFixture() *MonteCarloReport {
	start := dateutil.Date(2025, time.January, 1)

	res := &domain.MonteCarloResult{
		Paths:           100,
		SuccessfulPaths: 98,
		Metrics: domain.RiskMetrics{
			StartingIncome:             decimal.NewFromInt(7500),
			DepletionProbability:       decimal.NewFromFloat(12.4),
			MaxDrawdownPercent:         decimal.NewFromFloat(18.2),
			MinP5Income:                decimal.NewFromInt(6100),
			Volatility:                 decimal.NewFromInt(800),
			BelowStartProbability:      decimal.NewFromFloat(41.2),
			SignificantDropProbability: decimal.NewFromFloat(9.8),
		},
	}
	for i := 0; i < 25; i++ {
		res.Income = append(res.Income, domain.PercentileRow{
			Date: dateutil.AddMonths(start, i),
			P5:   decimal.NewFromInt(6000),
			P10:  decimal.NewFromInt(6500),
			P25:  decimal.NewFromInt(7000),
			P50:  decimal.NewFromInt(7500),
			P75:  decimal.NewFromInt(8000),
			P90:  decimal.NewFromInt(8500),
			P95:  decimal.NewFromInt(9000),
		})
	}
	for i := 0; i < 7; i++ {
		res.Errors = append(res.Errors, domain.PathError{Path: i, Message: "boom"})
	}

	return &MonteCarloReport{
		ScenarioName: "base",
		Result:       res,
		Snapshots: []domain.SummarySnapshot{
			{Label: "At Retirement", Date: start, Median: decimal.NewFromInt(7500), P10: decimal.NewFromInt(6500), P90: decimal.NewFromInt(8500)},
			{Label: "End of Projection", Date: dateutil.AddMonths(start, 24), Median: decimal.NewFromInt(7500), P10: decimal.NewFromInt(6500), P90: decimal.NewFromInt(8500)},
		},
	}
}

func TestConsoleProjectionFormatter(t *testing.T) {
	out, err := ConsoleProjectionFormatter{}.Format(projectionFixture())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "FEDERAL RETIREMENT INCOME PROJECTION")
	assert.Contains(t, text, "Scenario:           base")
	assert.Contains(t, text, "Months simulated:   14 (2025-07 through 2026-08)")
	assert.Contains(t, text, "ANNUAL SUMMARY")
	assert.Contains(t, text, "2025")
	assert.Contains(t, text, "2026")
	assert.NotContains(t, text, "TSP depleted")

	// 6 working months at 4,900 plus 8 retired months at 3,800.
	assert.Contains(t, text, "Lifetime income:    $59800.00")
}

func TestConsoleProjectionDepletion(t *testing.T) {
	result := projectionFixture()
	result.Records[13].TSPBalance = decimal.Zero

	out, err := ConsoleProjectionFormatter{}.Format(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), "TSP depleted:       2026-08")
}

func TestConsoleProjectionEmpty(t *testing.T) {
	out, err := ConsoleProjectionFormatter{}.Format(&domain.SimulationResult{ScenarioName: "empty"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "No months simulated.")
}

func TestCSVProjectionFormatter(t *testing.T) {
	out, err := CSVProjectionFormatter{}.Format(projectionFixture())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 15, "header plus fourteen months")
	require.Len(t, rows[0], 12)

	assert.Equal(t, "2025-07", rows[1][0])
	assert.Equal(t, "5000.00", rows[1][1])
	assert.Equal(t, "-100.00", rows[1][6])
	assert.Equal(t, "4900.00", rows[1][11], "cumulative equals the first month's total")
	assert.Equal(t, "3000.00", rows[8][2])
}

func TestJSONProjectionFormatter(t *testing.T) {
	out, err := JSONProjectionFormatter{}.Format(projectionFixture())
	require.NoError(t, err)

	var decoded domain.SimulationResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "base", decoded.ScenarioName)
	assert.Len(t, decoded.Records, 14)

	pretty, err := JSONProjectionFormatter{Pretty: true}.Format(projectionFixture())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pretty), "{\n"))
}

func TestConsoleMonteCarloFormatter(t *testing.T) {
	out, err := ConsoleMonteCarloFormatter{}.Format(monteCarloFixture())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "MONTE CARLO SIMULATION")
	assert.Contains(t, text, "Paths:     100 (98 succeeded, 2 failed)")
	assert.Contains(t, text, "RISK METRICS")
	assert.Contains(t, text, "Depletion probability:         12.40%")
	assert.Contains(t, text, "SCENARIO SUMMARY")
	assert.Contains(t, text, "At Retirement")
	assert.Contains(t, text, "PATH FAILURES")
	assert.Contains(t, text, "... and 2 more")

	// The yearly sample keeps months 0, 12, and the final month 24.
	assert.Contains(t, text, "2025-01")
	assert.Contains(t, text, "2026-01")
	assert.Contains(t, text, "2027-01")
	assert.NotContains(t, text, "2025-02")
}

func TestConsoleMonteCarloAllFailed(t *testing.T) {
	report := monteCarloFixture()
	report.Result.SuccessfulPaths = 0

	out, err := ConsoleMonteCarloFormatter{}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Every path failed")
}

func TestCSVMonteCarloFormatter(t *testing.T) {
	out, err := CSVMonteCarloFormatter{}.Format(monteCarloFixture())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 26, "header plus twenty-five months")
	assert.Equal(t, []string{"Date", "P5", "P10", "P25", "P50", "P75", "P90", "P95"}, rows[0])
	assert.Equal(t, "7500.00", rows[1][4])
}

func TestJSONMonteCarloFormatter(t *testing.T) {
	out, err := JSONMonteCarloFormatter{}.Format(monteCarloFixture())
	require.NoError(t, err)

	var decoded MonteCarloReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "base", decoded.ScenarioName)
	assert.Equal(t, 98, decoded.Result.SuccessfulPaths)
	assert.Len(t, decoded.Snapshots, 2)
}

func TestRenderDispatch(t *testing.T) {
	result := projectionFixture()
	for _, format := range []string{"console", "csv", "json"} {
		out, err := RenderProjection(result, format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, out, format)
	}

	report := monteCarloFixture()
	for _, format := range []string{"console", "csv", "json"} {
		out, err := RenderMonteCarlo(report, format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, out, format)
	}

	_, err := RenderProjection(result, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, err = RenderMonteCarlo(report, "xml")
	require.Error(t, err)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.56", FormatCurrency(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "12.40%", FormatPercentage(decimal.NewFromFloat(12.4)))
}
