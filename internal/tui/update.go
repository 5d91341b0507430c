package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.sampling {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		m.file = msg.file
		m.result = msg.result
		m.loading = false
		if m.file.MonteCarlo != nil {
			m.sampling = true
			return m, runMonteCarloCmd(m.file.Primary(), m.file.MonteCarlo.Config())
		}
		return m, nil

	case monteCarloDoneMsg:
		m.sampling = false
		m.mc = msg.result
		m.mcErr = msg.err
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		m.scroll = 0

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		m.scroll = 0

	case key.Matches(msg, m.keys.Up):
		if m.scroll > 0 {
			m.scroll--
		}

	case key.Matches(msg, m.keys.Down):
		if m.scroll < m.maxScroll() {
			m.scroll++
		}

	case key.Matches(msg, m.keys.Series):
		if m.activeTab == tabChart {
			m.chartBalance = !m.chartBalance
		}
	}

	return m, nil
}

// maxScroll bounds the scroll offset for the active tab's row count.
func (m Model) maxScroll() int {
	var rows int
	switch m.activeTab {
	case tabMonths:
		if m.result != nil {
			rows = len(m.result.Records)
		}
	case tabPercentiles:
		if m.mc != nil {
			rows = len(yearlySamples(m.mc.Income))
		}
	default:
		return 0
	}
	if max := rows - m.visibleRows(); max > 0 {
		return max
	}
	return 0
}

func (m *Model) clampScroll() {
	if max := m.maxScroll(); m.scroll > max {
		m.scroll = max
	}
}
