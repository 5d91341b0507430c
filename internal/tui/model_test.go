package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/retire/internal/config"
	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

func loadedModel(t *testing.T, months int) Model {
	t.Helper()

	records := make([]domain.MonthlyRecord, months)
	for i := range records {
		records[i] = domain.MonthlyRecord{
			Date:        dateutil.Date(2025, time.January, 1).AddDate(0, i, 0),
			Salary:      decimal.NewFromInt(5000),
			TotalIncome: decimal.NewFromInt(5000),
			TSPBalance:  decimal.NewFromInt(400000),
		}
	}
	result := &domain.SimulationResult{
		ScenarioName:     "browser test",
		Records:          records,
		CumulativeIncome: domain.AccumulateIncome(records),
	}
	params := domain.ScenarioParameters{Name: "browser test"}
	file := &config.ScenarioFile{Scenario: &params}

	m := NewModel("scenario.yaml")
	updated, cmd := m.Update(dataLoadedMsg{file: file, result: result})
	require.Nil(t, cmd)
	return updated.(Model)
}

func TestLoadedMessageStoresData(t *testing.T) {
	m := loadedModel(t, 3)

	assert.False(t, m.loading)
	assert.False(t, m.sampling)
	require.NotNil(t, m.result)
	assert.Equal(t, "browser test", m.result.ScenarioName)
}

func TestLoadedMessageStartsSampling(t *testing.T) {
	params := domain.ScenarioParameters{Name: "mc"}
	seed := int64(1)
	file := &config.ScenarioFile{
		Scenario:   &params,
		MonteCarlo: &config.MonteCarloDefaults{NumPaths: 4, Seed: &seed},
	}
	result := &domain.SimulationResult{ScenarioName: "mc"}

	m := NewModel("scenario.yaml")
	updated, cmd := m.Update(dataLoadedMsg{file: file, result: result})

	got := updated.(Model)
	assert.True(t, got.sampling)
	assert.NotNil(t, cmd)
}

func TestTabKeysCycle(t *testing.T) {
	m := loadedModel(t, 3)

	next := tea.KeyMsg{Type: tea.KeyTab}
	prev := tea.KeyMsg{Type: tea.KeyShiftTab}

	updated, _ := m.Update(next)
	m = updated.(Model)
	assert.Equal(t, tabChart, m.activeTab)

	updated, _ = m.Update(prev)
	m = updated.(Model)
	assert.Equal(t, tabOverview, m.activeTab)

	// Cycling backwards from the first tab wraps to the last.
	updated, _ = m.Update(prev)
	m = updated.(Model)
	assert.Equal(t, tabPercentiles, m.activeTab)
}

func TestQuitKey(t *testing.T) {
	m := loadedModel(t, 3)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestScrollStaysInBounds(t *testing.T) {
	m := loadedModel(t, 40)
	m.height = 20
	m.activeTab = tabMonths

	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 100; i++ {
		updated, _ := m.Update(down)
		m = updated.(Model)
	}
	assert.Equal(t, m.maxScroll(), m.scroll)
	assert.Equal(t, 40-m.visibleRows(), m.scroll)

	up := tea.KeyMsg{Type: tea.KeyUp}
	for i := 0; i < 100; i++ {
		updated, _ := m.Update(up)
		m = updated.(Model)
	}
	assert.Zero(t, m.scroll)
}

func TestTabSwitchResetsScroll(t *testing.T) {
	m := loadedModel(t, 40)
	m.height = 20
	m.activeTab = tabMonths
	m.scroll = 5

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Zero(t, m.scroll)
}

func TestBalanceToggleOnlyOnChartTab(t *testing.T) {
	m := loadedModel(t, 3)

	b := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}}

	updated, _ := m.Update(b)
	m = updated.(Model)
	assert.False(t, m.chartBalance)

	m.activeTab = tabChart
	updated, _ = m.Update(b)
	m = updated.(Model)
	assert.True(t, m.chartBalance)
}

func TestViewShowsOverview(t *testing.T) {
	m := loadedModel(t, 14)

	view := m.View()
	assert.Contains(t, view, "Retirement Income Explorer")
	assert.Contains(t, view, "browser test")
	assert.Contains(t, view, "2025-01 through 2026-02")
	assert.Contains(t, view, "Lifetime income")
	assert.Contains(t, view, "Months simulated")
}

func TestViewShowsMonthsTable(t *testing.T) {
	m := loadedModel(t, 30)
	m.activeTab = tabMonths

	view := m.View()
	assert.Contains(t, view, "TSP Draw")
	assert.Contains(t, view, "2025-01")
	assert.Contains(t, view, "more months")
}

func TestViewPercentilesWithoutConfig(t *testing.T) {
	m := loadedModel(t, 3)
	m.activeTab = tabPercentiles

	assert.Contains(t, m.View(), "monte_carlo block")
}

func TestViewError(t *testing.T) {
	m := NewModel("missing.yaml")
	updated, _ := m.Update(errMsg{errors.New("no such file")})
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "Error: no such file")
	assert.False(t, m.loading)
}

func TestWindowResizeClampsScroll(t *testing.T) {
	m := loadedModel(t, 40)
	m.height = 20
	m.activeTab = tabMonths
	m.scroll = m.maxScroll()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	m = updated.(Model)

	assert.LessOrEqual(t, m.scroll, m.maxScroll())
	assert.Equal(t, 100, m.width)
}
