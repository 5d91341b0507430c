package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter renders a comparison as a console table.
type TableFormatter struct{}

// Format generates the side-by-side table with breakeven and cash-flow
// sections when present.
func (tf *TableFormatter) Format(cmp *Comparison) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n\n")

	nameWidth := 26
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "1st Year Income",
		numWidth, "Lifetime Income",
		numWidth, "Final TSP"))
	sb.WriteString(strings.Repeat("-", 78) + "\n")
	sb.WriteString(tf.formatRow(cmp.A, nameWidth, numWidth))
	sb.WriteString(tf.formatRow(cmp.B, nameWidth, numWidth))
	sb.WriteString(strings.Repeat("=", 78) + "\n")

	sb.WriteString("\nB VERSUS A\n")
	sb.WriteString(strings.Repeat("-", 78) + "\n")
	sb.WriteString(fmt.Sprintf("  Lifetime Income:  %s$%s (%s%%)\n",
		tf.deltaSymbol(cmp.IncomeDiff),
		tf.formatDecimal(cmp.IncomeDiff.Abs()),
		cmp.IncomePct.StringFixed(1)))

	if cmp.Breakeven != nil {
		sb.WriteString(fmt.Sprintf("  Breakeven:        %s (month %d, cumulative $%s)\n",
			cmp.Breakeven.Date.Format("2006-01"),
			cmp.Breakeven.MonthIndex,
			tf.formatDecimal(cmp.Breakeven.CumulativeIncome)))
	} else {
		sb.WriteString("  Breakeven:        none, one scenario leads throughout\n")
	}

	if cmp.Household != nil && len(cmp.Household.CumulativeIncome) > 0 {
		last := len(cmp.Household.CumulativeIncome) - 1
		sb.WriteString("\nHOUSEHOLD\n")
		sb.WriteString(strings.Repeat("-", 78) + "\n")
		sb.WriteString(fmt.Sprintf("  Combined lifetime income: $%s over %d months\n",
			tf.formatDecimal(cmp.Household.CumulativeIncome[last]),
			len(cmp.Household.Records)))
	}

	if len(cmp.CashFlow) > 0 {
		last := cmp.CashFlow[len(cmp.CashFlow)-1]
		sb.WriteString("\nCASH FLOW\n")
		sb.WriteString(strings.Repeat("-", 78) + "\n")
		sb.WriteString(fmt.Sprintf("  Final cumulative net: %s$%s\n",
			tf.deltaSymbol(last.CumulativeNet),
			tf.formatDecimal(last.CumulativeNet.Abs())))
		negatives := 0
		for _, flow := range cmp.CashFlow {
			if flow.Net.IsNegative() {
				negatives++
			}
		}
		sb.WriteString(fmt.Sprintf("  Months in deficit:    %d of %d\n",
			negatives, len(cmp.CashFlow)))
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(m ScenarioMetrics, nameWidth, numWidth int) string {
	balance := "$" + tf.formatDecimal(m.FinalTSPBalance)
	if m.TSPDepletedAt != nil {
		balance = "depleted " + m.TSPDepletedAt.Format("2006-01")
	}
	return fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(m.Name, nameWidth),
		numWidth, "$"+tf.formatDecimal(m.FirstYearIncome),
		numWidth, "$"+tf.formatDecimal(m.LifetimeIncome),
		numWidth, balance)
}

// formatDecimal abbreviates large figures to thousands or millions.
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	}
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
