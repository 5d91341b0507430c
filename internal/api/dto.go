package api

import (
	"github.com/rgehrsitz/retire/internal/config"
	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/internal/output"
)

// SimulateRequest is the body of POST /api/simulate.
type SimulateRequest struct {
	Scenario domain.ScenarioParameters `json:"scenario"`
	// Persist saves a summary row to the run history.
	Persist bool `json:"persist,omitempty"`
}

// SimulateResponse carries the full monthly projection.
type SimulateResponse struct {
	Result *domain.SimulationResult `json:"result"`
	RunID  *int64                   `json:"run_id,omitempty"`
}

// MonteCarloRequest is the body of POST /api/montecarlo. Config mirrors
// the monte_carlo block of a scenario file.
type MonteCarloRequest struct {
	Scenario domain.ScenarioParameters `json:"scenario"`
	Config   config.MonteCarloDefaults `json:"config"`
	Persist  bool                      `json:"persist,omitempty"`
}

// MonteCarloResponse carries the reduced batch with milestone snapshots.
type MonteCarloResponse struct {
	Report *output.MonteCarloReport `json:"report"`
	RunID  *int64                   `json:"run_id,omitempty"`
}

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	ScenarioA        domain.ScenarioParameters `json:"scenario_a"`
	ScenarioB        domain.ScenarioParameters `json:"scenario_b"`
	IncludeHousehold bool                      `json:"include_household,omitempty"`
	Expenses         *domain.ExpenseParameters `json:"expenses,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the JSON shape of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
