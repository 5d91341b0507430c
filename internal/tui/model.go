// Package tui is the interactive results browser: it loads a scenario file,
// runs the projection (and the Monte Carlo batch when the file configures
// one), and presents the output as tabbed dashboards.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/retire/internal/calculation"
	"github.com/rgehrsitz/retire/internal/config"
	"github.com/rgehrsitz/retire/internal/domain"
)

// tab indexes the dashboard tabs in display order.
type tab int

const (
	tabOverview tab = iota
	tabChart
	tabMonths
	tabPercentiles
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabOverview:
		return "Overview"
	case tabChart:
		return "Chart"
	case tabMonths:
		return "Months"
	case tabPercentiles:
		return "Percentiles"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	path string

	// Data, populated by the load commands.
	file   *config.ScenarioFile
	result *domain.SimulationResult
	mc     *domain.MonteCarloResult
	mcErr  error

	err      error
	loading  bool
	sampling bool

	// UI state
	width        int
	height       int
	activeTab    tab
	scroll       int
	chartBalance bool

	keys    keyMap
	spinner spinner.Model
}

// NewModel creates the application model for a scenario file path.
func NewModel(path string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		path:    path,
		loading: true,
		width:   80,
		height:  24,
		keys:    defaultKeyMap(),
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadScenarioCmd(m.path))
}

// loadScenarioCmd parses the scenario file and runs the projection.
func loadScenarioCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		file, err := parser.LoadFromFile(path)
		if err != nil {
			return errMsg{err}
		}

		sim := calculation.NewSimulator()
		result, err := sim.Project(file.Primary())
		if err != nil {
			return errMsg{err}
		}
		return dataLoadedMsg{file: file, result: result}
	}
}

// runMonteCarloCmd runs the batch configured in the scenario file.
func runMonteCarloCmd(params domain.ScenarioParameters, cfg calculation.MonteCarloConfig) tea.Cmd {
	return func() tea.Msg {
		runner := calculation.NewMonteCarloRunner(calculation.NewSimulator())
		res, err := runner.Run(context.Background(), params, cfg)
		return monteCarloDoneMsg{result: res, err: err}
	}
}
