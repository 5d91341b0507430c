package tui

import (
	"github.com/rgehrsitz/retire/internal/config"
	"github.com/rgehrsitz/retire/internal/domain"
)

// dataLoadedMsg delivers the parsed file and its deterministic projection.
type dataLoadedMsg struct {
	file   *config.ScenarioFile
	result *domain.SimulationResult
}

// monteCarloDoneMsg delivers the batch result. A failed batch keeps the
// deterministic view usable; the error is shown on the percentiles tab.
type monteCarloDoneMsg struct {
	result *domain.MonteCarloResult
	err    error
}

// errMsg carries a fatal load error.
type errMsg struct {
	err error
}
