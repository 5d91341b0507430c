package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rgehrsitz/retire/internal/calculation"
	"github.com/rgehrsitz/retire/internal/compare"
	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/internal/output"
	"github.com/rgehrsitz/retire/internal/store"
)

// Handler holds the engines behind the HTTP surface. History is optional;
// without it the run endpoints report the feature as disabled.
type Handler struct {
	sim     *calculation.Simulator
	runner  *calculation.MonteCarloRunner
	engine  *compare.CompareEngine
	history *store.Store
	version string
}

// NewHandler wires a handler around fresh engines.
func NewHandler(history *store.Store, version string) *Handler {
	sim := calculation.NewSimulator()
	return &Handler{
		sim:     sim,
		runner:  calculation.NewMonteCarloRunner(sim),
		engine:  compare.NewCompareEngine(sim),
		history: history,
		version: version,
	}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// Simulate runs one deterministic projection.
// POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.sim.Project(req.Scenario)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario", err)
		return
	}

	resp := SimulateResponse{Result: result}
	if req.Persist {
		resp.RunID = h.persistSimulation(req.Scenario, result)
	}
	writeJSON(w, http.StatusOK, resp)
}

// MonteCarlo runs a sampled batch.
// POST /api/montecarlo
func (h *Handler) MonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.runner.Run(r.Context(), req.Scenario, req.Config.Config())
	if err != nil {
		writeError(w, http.StatusBadRequest, "simulation failed", err)
		return
	}

	report := &output.MonteCarloReport{
		ScenarioName: req.Scenario.Name,
		Result:       res,
		Snapshots:    calculation.BuildSummarySnapshots(res, req.Scenario),
	}
	resp := MonteCarloResponse{Report: report}
	if req.Persist {
		resp.RunID = h.persistMonteCarlo(req.Scenario, res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Compare runs two scenarios side by side.
// POST /api/compare
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	options := compare.CompareOptions{
		IncludeHousehold: req.IncludeHousehold,
		Expenses:         req.Expenses,
	}
	cmp, err := h.engine.Compare(r.Context(), req.ScenarioA, req.ScenarioB, options)
	if err != nil {
		writeError(w, http.StatusBadRequest, "comparison failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// ListRuns returns recent history rows, newest first.
// GET /api/runs?limit=N
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled", nil)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	runs, err := h.history.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one history row with its stored parameters.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled", nil)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "run id must be an integer", err)
		return
	}

	rec, err := h.history.GetRun(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRun removes one history row.
// DELETE /api/runs/{id}
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled", nil)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "run id must be an integer", err)
		return
	}

	err = h.history.DeleteRun(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete run", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// persistSimulation saves a history row, returning the id or nil. A failed
// save never fails the simulation response.
func (h *Handler) persistSimulation(params domain.ScenarioParameters, result *domain.SimulationResult) *int64 {
	if h.history == nil {
		return nil
	}
	rec, err := store.NewSimulationRun(params, result)
	if err != nil {
		return nil
	}
	id, err := h.history.SaveRun(rec)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) persistMonteCarlo(params domain.ScenarioParameters, res *domain.MonteCarloResult) *int64 {
	if h.history == nil {
		return nil
	}
	rec, err := store.NewMonteCarloRun(params, res)
	if err != nil {
		return nil
	}
	id, err := h.history.SaveRun(rec)
	if err != nil {
		return nil
	}
	return &id
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
