package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter renders the per-scenario comparison metrics as CSV.
type CSVFormatter struct{}

// Format writes one row per scenario plus the computed deltas.
func (cf *CSVFormatter) Format(cmp *Comparison) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Label",
		"First Year Income",
		"Lifetime Income",
		"Final TSP Balance",
		"TSP Depleted At",
		"Income Diff vs A",
		"Income % vs A",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(cmp.A, "a", "", "")); err != nil {
		return "", err
	}
	row := cf.formatRow(cmp.B, "b", cmp.IncomeDiff.StringFixed(2), cmp.IncomePct.StringFixed(2))
	if err := writer.Write(row); err != nil {
		return "", err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(m ScenarioMetrics, label, diff, pct string) []string {
	depleted := ""
	if m.TSPDepletedAt != nil {
		depleted = m.TSPDepletedAt.Format("2006-01-02")
	}
	return []string{
		m.Name,
		label,
		m.FirstYearIncome.StringFixed(2),
		m.LifetimeIncome.StringFixed(2),
		m.FinalTSPBalance.StringFixed(2),
		depleted,
		diff,
		pct,
	}
}
