package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
)

// ConsoleProjectionFormatter renders a simulation as a year-by-year table
// with headline figures on top.
type ConsoleProjectionFormatter struct{}

func (c ConsoleProjectionFormatter) Name() string { return "console" }

func (c ConsoleProjectionFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "FEDERAL RETIREMENT INCOME PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))

	if result.ScenarioName != "" {
		fmt.Fprintf(&buf, "Scenario:           %s\n", result.ScenarioName)
	}
	if len(result.Records) == 0 {
		fmt.Fprintln(&buf, "No months simulated.")
		return buf.Bytes(), nil
	}

	first := result.Records[0].Date
	last := result.Records[len(result.Records)-1].Date
	fmt.Fprintf(&buf, "Months simulated:   %d (%s through %s)\n",
		len(result.Records), first.Format("2006-01"), last.Format("2006-01"))
	fmt.Fprintf(&buf, "Lifetime income:    %s\n",
		FormatCurrency(result.CumulativeIncome[len(result.CumulativeIncome)-1]))
	fmt.Fprintf(&buf, "Final TSP balance:  %s\n", FormatCurrency(result.FinalBalance()))
	for _, rec := range result.Records {
		if !rec.TSPBalance.IsPositive() {
			fmt.Fprintf(&buf, "TSP depleted:       %s\n", rec.Date.Format("2006-01"))
			break
		}
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ANNUAL SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("-", 80))
	fmt.Fprintf(&buf, "%-5s %13s %13s %12s %13s %12s %12s %14s %15s\n",
		"Year", "Salary", "Annuity", "Supplement", "TSP Draw", "Soc Sec", "Premiums", "Total", "End Balance")

	for _, y := range c.annualize(result.Records) {
		fmt.Fprintf(&buf, "%-5d %13s %13s %12s %13s %12s %12s %14s %15s\n",
			y.year,
			FormatCurrency(y.salary),
			FormatCurrency(y.annuity),
			FormatCurrency(y.supplement),
			FormatCurrency(y.tspDraw),
			FormatCurrency(y.socialSecurity),
			FormatCurrency(y.premiums),
			FormatCurrency(y.total),
			FormatCurrency(y.endBalance))
	}

	return buf.Bytes(), nil
}

type annualRow struct {
	year           int
	salary         decimal.Decimal
	annuity        decimal.Decimal
	supplement     decimal.Decimal
	tspDraw        decimal.Decimal
	socialSecurity decimal.Decimal
	premiums       decimal.Decimal
	total          decimal.Decimal
	endBalance     decimal.Decimal
}

// annualize groups monthly records by calendar year. Premiums are reported
// as a positive cost; the total already nets them out.
func (c ConsoleProjectionFormatter) annualize(records []domain.MonthlyRecord) []annualRow {
	var rows []annualRow
	for _, rec := range records {
		year := rec.Date.Year()
		if len(rows) == 0 || rows[len(rows)-1].year != year {
			rows = append(rows, annualRow{year: year})
		}
		row := &rows[len(rows)-1]
		row.salary = row.salary.Add(rec.Salary)
		row.annuity = row.annuity.Add(rec.FERSAnnuity)
		row.supplement = row.supplement.Add(rec.FERSSupplement)
		row.tspDraw = row.tspDraw.Add(rec.TSPWithdrawal)
		row.socialSecurity = row.socialSecurity.Add(rec.SocialSecurity)
		row.premiums = row.premiums.Sub(rec.FEHBPremium).Sub(rec.MedicarePremium)
		row.total = row.total.Add(rec.TotalIncome)
		row.endBalance = rec.TSPBalance
	}
	return rows
}

// ConsoleMonteCarloFormatter renders a batch result: risk metrics, the
// milestone summary, and a yearly sample of the income percentile table.
type ConsoleMonteCarloFormatter struct{}

func (c ConsoleMonteCarloFormatter) Name() string { return "console" }

func (c ConsoleMonteCarloFormatter) Format(report *MonteCarloReport) ([]byte, error) {
	var buf bytes.Buffer
	res := report.Result

	fmt.Fprintln(&buf, "MONTE CARLO SIMULATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	if report.ScenarioName != "" {
		fmt.Fprintf(&buf, "Scenario:  %s\n", report.ScenarioName)
	}
	fmt.Fprintf(&buf, "Paths:     %d (%d succeeded, %d failed)\n",
		res.Paths, res.SuccessfulPaths, res.Paths-res.SuccessfulPaths)
	fmt.Fprintln(&buf)

	if res.SuccessfulPaths == 0 {
		fmt.Fprintln(&buf, "Every path failed; no statistics available.")
		c.writeErrors(&buf, res)
		return buf.Bytes(), nil
	}

	m := res.Metrics
	fmt.Fprintln(&buf, "RISK METRICS")
	fmt.Fprintln(&buf, strings.Repeat("-", 80))
	fmt.Fprintf(&buf, "Starting income (median):      %s\n", FormatCurrency(m.StartingIncome))
	fmt.Fprintf(&buf, "Depletion probability:         %s\n", FormatPercentage(m.DepletionProbability))
	fmt.Fprintf(&buf, "Maximum drawdown:              %s (p5 floor %s)\n",
		FormatPercentage(m.MaxDrawdownPercent), FormatCurrency(m.MinP5Income))
	fmt.Fprintf(&buf, "Income volatility:             %s\n", FormatCurrency(m.Volatility))
	fmt.Fprintf(&buf, "Months below starting income:  %s\n", FormatPercentage(m.BelowStartProbability))
	fmt.Fprintf(&buf, "Significant drop risk:         %s\n", FormatPercentage(m.SignificantDropProbability))
	fmt.Fprintln(&buf)

	if len(report.Snapshots) > 0 {
		fmt.Fprintln(&buf, "SCENARIO SUMMARY")
		fmt.Fprintln(&buf, strings.Repeat("-", 80))
		fmt.Fprintf(&buf, "%-28s %-9s %13s %13s %13s\n", "Milestone", "Date", "p10", "Median", "p90")
		for _, s := range report.Snapshots {
			fmt.Fprintf(&buf, "%-28s %-9s %13s %13s %13s\n",
				s.Label, s.Date.Format("2006-01"),
				FormatCurrency(s.P10), FormatCurrency(s.Median), FormatCurrency(s.P90))
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "MONTHLY INCOME PERCENTILES (yearly sample)")
	fmt.Fprintln(&buf, strings.Repeat("-", 80))
	fmt.Fprintf(&buf, "%-9s %13s %13s %13s %13s %13s\n", "Date", "p5", "p25", "p50", "p75", "p95")
	for i, row := range res.Income {
		if i%12 != 0 && i != len(res.Income)-1 {
			continue
		}
		fmt.Fprintf(&buf, "%-9s %13s %13s %13s %13s %13s\n",
			row.Date.Format("2006-01"),
			FormatCurrency(row.P5), FormatCurrency(row.P25), FormatCurrency(row.P50),
			FormatCurrency(row.P75), FormatCurrency(row.P95))
	}

	c.writeErrors(&buf, res)
	return buf.Bytes(), nil
}

func (c ConsoleMonteCarloFormatter) writeErrors(buf *bytes.Buffer, res *domain.MonteCarloResult) {
	if len(res.Errors) == 0 {
		return
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "PATH FAILURES")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	shown := len(res.Errors)
	if shown > 5 {
		shown = 5
	}
	for _, e := range res.Errors[:shown] {
		fmt.Fprintf(buf, "  %s\n", e.Error())
	}
	if rest := len(res.Errors) - shown; rest > 0 {
		fmt.Fprintf(buf, "  ... and %d more\n", rest)
	}
}
