package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/compare"
	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/internal/tui/components"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n\n" +
			mutedStyle.Render("press q to quit") + "\n"
	}
	if m.loading || m.result == nil {
		return fmt.Sprintf("\n  %s Running projection for %s...\n", m.spinner.View(), m.path)
	}

	var content string
	switch m.activeTab {
	case tabOverview:
		content = m.renderOverview()
	case tabChart:
		content = m.renderChart()
	case tabMonths:
		content = m.renderMonths()
	case tabPercentiles:
		content = m.renderPercentiles()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderTabs(),
		"",
		content,
		"",
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("Retirement Income Explorer")

	first := m.result.Records[0].Date
	last := m.result.Records[len(m.result.Records)-1].Date
	subtitle := subtitleStyle.Render(fmt.Sprintf("%s · %s through %s",
		m.result.ScenarioName, first.Format("2006-01"), last.Format("2006-01")))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, int(tabCount))
	for t := tab(0); t < tabCount; t++ {
		if t == m.activeTab {
			parts = append(parts, activeTabStyle.Render(t.String()))
		} else {
			parts = append(parts, tabStyle.Render(t.String()))
		}
	}
	return strings.Join(parts, "│")
}

func (m Model) renderOverview() string {
	metrics := compare.NewMetricsCalculator().CalculateMetrics(m.result)

	depleted := "never"
	if metrics.TSPDepletedAt != nil {
		depleted = metrics.TSPDepletedAt.Format("2006-01")
	}

	row1 := components.Grid([]*components.Card{
		components.NewCard("Lifetime income", components.FormatShort(metrics.LifetimeIncome.InexactFloat64())),
		components.NewCard("First-year income", components.FormatShort(metrics.FirstYearIncome.InexactFloat64())),
		components.NewCard("Final TSP balance", components.FormatShort(metrics.FinalTSPBalance.InexactFloat64())),
	}, 3)

	row2 := components.Grid([]*components.Card{
		components.NewCard("TSP depleted", depleted),
		components.NewCard("Monthly income at start",
			components.FormatShort(m.result.Records[0].TotalIncome.InexactFloat64())),
		components.NewCard("Months simulated", fmt.Sprintf("%d", m.result.Months())),
	}, 3)

	sections := []string{row1, row2}

	if m.sampling {
		sections = append(sections, m.spinner.View()+" sampling Monte Carlo paths...")
	}
	if m.mcErr != nil {
		sections = append(sections, errorStyle.Render("Monte Carlo failed: "+m.mcErr.Error()))
	}
	if m.mc != nil {
		mcRow := components.Grid([]*components.Card{
			components.NewCard("Depletion probability",
				m.mc.Metrics.DepletionProbability.StringFixed(1)+"%").
				WithNote(fmt.Sprintf("%d of %d paths ok", m.mc.SuccessfulPaths, m.mc.Paths)),
			components.NewCard("Max income drawdown",
				m.mc.Metrics.MaxDrawdownPercent.StringFixed(1)+"%"),
			components.NewCard("Income volatility",
				components.FormatShort(m.mc.Metrics.Volatility.InexactFloat64())),
		}, 3)
		sections = append(sections, mcRow)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderChart() string {
	var (
		title  string
		series []decimal.Decimal
	)
	if m.chartBalance {
		title = "End-of-month TSP balance"
		series = m.result.BalanceSeries()
	} else {
		title = "Monthly net income"
		series = m.result.TotalIncomeSeries()
	}

	points := make([]float64, len(series))
	for i, v := range series {
		points[i] = v.InexactFloat64()
	}

	first := m.result.Records[0].Date
	mid := m.result.Records[len(m.result.Records)/2].Date
	last := m.result.Records[len(m.result.Records)-1].Date

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	height := m.visibleRows()
	if height > 18 {
		height = 18
	}

	return components.NewChart(title).
		WithPoints(points).
		WithLabels(first.Format("2006-01"), mid.Format("2006-01"), last.Format("2006-01")).
		WithSize(width, height).
		Render()
}

func (m Model) renderMonths() string {
	var b strings.Builder

	header := fmt.Sprintf("%-8s %10s %10s %10s %10s %11s %12s",
		"Date", "Salary", "Annuity", "TSP Draw", "Soc Sec", "Total", "Balance")
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", len(header)))
	b.WriteString("\n")

	visible := m.visibleRows()
	records := m.result.Records
	end := m.scroll + visible
	if end > len(records) {
		end = len(records)
	}

	for _, rec := range records[m.scroll:end] {
		b.WriteString(fmt.Sprintf("%-8s %10s %10s %10s %10s %11s %12s\n",
			rec.Date.Format("2006-01"),
			money(rec.Salary),
			money(rec.FERSAnnuity),
			money(rec.TSPWithdrawal),
			money(rec.SocialSecurity),
			money(rec.TotalIncome),
			money(rec.TSPBalance)))
	}

	if rest := len(records) - end; rest > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more months", rest)))
	}
	return b.String()
}

func (m Model) renderPercentiles() string {
	if m.file != nil && m.file.MonteCarlo == nil {
		return mutedStyle.Render("Add a monte_carlo block to the scenario file to see percentile bands.")
	}
	if m.sampling {
		return m.spinner.View() + " sampling Monte Carlo paths..."
	}
	if m.mcErr != nil {
		return errorStyle.Render("Monte Carlo failed: " + m.mcErr.Error())
	}
	if m.mc == nil || len(m.mc.Income) == 0 {
		return mutedStyle.Render("No Monte Carlo results.")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-8s %10s %10s %10s %10s %10s",
		"Date", "P10", "P25", "P50", "P75", "P90")
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", len(header)))
	b.WriteString("\n")

	rows := yearlySamples(m.mc.Income)
	visible := m.visibleRows()
	end := m.scroll + visible
	if end > len(rows) {
		end = len(rows)
	}

	for _, row := range rows[m.scroll:end] {
		b.WriteString(fmt.Sprintf("%-8s %10s %10s %10s %10s %10s\n",
			row.Date.Format("2006-01"),
			money(row.P10),
			money(row.P25),
			money(row.P50),
			money(row.P75),
			money(row.P90)))
	}

	if rest := len(rows) - end; rest > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more years", rest)))
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	bindings := []struct{ key, desc string }{
		{m.keys.NextTab.Help().Key, m.keys.NextTab.Help().Desc},
		{m.keys.Up.Help().Key + "/" + m.keys.Down.Help().Key, "scroll"},
		{m.keys.Series.Help().Key, m.keys.Series.Help().Desc},
		{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = statusKeyStyle.Render(b.key) + " " + b.desc
	}
	return statusBarStyle.Render(strings.Join(parts, " • "))
}

// visibleRows is the number of table rows that fit under the chrome.
func (m Model) visibleRows() int {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

// yearlySamples keeps every twelfth row plus the last one so a long horizon
// fits on one screen.
func yearlySamples(rows []domain.PercentileRow) []domain.PercentileRow {
	out := make([]domain.PercentileRow, 0, len(rows)/12+1)
	for i, row := range rows {
		if i%12 == 0 || i == len(rows)-1 {
			out = append(out, row)
		}
	}
	return out
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(0)
}
