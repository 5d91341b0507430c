package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/retire/internal/compare"
	"github.com/rgehrsitz/retire/internal/config"
	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/internal/store"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

func apiScenario(name string, retirementYear, projectionYears int) domain.ScenarioParameters {
	return domain.ScenarioParameters{
		Name:               name,
		BirthDate:          dateutil.Date(1963, time.March, 15),
		HireDate:           dateutil.Date(1988, time.June, 6),
		RetirementDate:     dateutil.Date(retirementYear, time.June, 15),
		High3Salary:        decimal.NewFromInt(100000),
		TSPStartingBalance: decimal.NewFromInt(400000),
		SSStartAge:         67,
		COLA:               domain.RateFromFloat(0.02),
		TSPGrowth:          domain.RateFromFloat(0.05),
		TSPWithdrawalRate:  decimal.NewFromFloat(0.04),
		WithdrawalStrategy: domain.WithdrawFixedPercentage,
		PAResident:         true,
		FilingStatus:       domain.FilingSingle,
		FEHBPremium:        decimal.NewFromInt(200),
		FEHBGrowthRate:     decimal.NewFromFloat(0.05),
		ProjectionYears:    projectionYears,
	}
}

func newTestRouter(t *testing.T, withHistory bool) http.Handler {
	t.Helper()
	var history *store.Store
	if withHistory {
		s, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		history = s
	}
	return NewRouter(NewHandler(history, "test"))
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doRequest(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, false)

	rec := doRequest(t, router, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestSimulateEndpoint(t *testing.T) {
	router := newTestRouter(t, false)

	rec := postJSON(t, router, "/api/simulate", SimulateRequest{
		Scenario: apiScenario("api run", 2025, 25),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, "api run", resp.Result.ScenarioName)
	assert.Len(t, resp.Result.Records, 306)
	assert.Equal(t, dateutil.Date(2025, time.January, 1), resp.Result.Records[0].Date)
	assert.Nil(t, resp.RunID)
}

func TestSimulateRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request body", resp.Error)
}

func TestSimulateRejectsInvalidScenario(t *testing.T) {
	router := newTestRouter(t, false)

	broken := apiScenario("broken", 2025, 25)
	broken.High3Salary = decimal.NewFromInt(-1)

	rec := postJSON(t, router, "/api/simulate", SimulateRequest{Scenario: broken})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid scenario", resp.Error)
	assert.Contains(t, resp.Details, "high-3 salary cannot be negative")
}

func TestSimulatePersistsRun(t *testing.T) {
	router := newTestRouter(t, true)

	rec := postJSON(t, router, "/api/simulate", SimulateRequest{
		Scenario: apiScenario("saved", 2025, 25),
		Persist:  true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.RunID)
	assert.Equal(t, int64(1), *resp.RunID)

	got := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/runs/%d", *resp.RunID))
	require.Equal(t, http.StatusOK, got.Code)

	var run store.RunRecord
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &run))
	assert.Equal(t, store.RunSimulate, run.Kind)
	assert.Equal(t, "saved", run.Scenario)
	assert.Equal(t, 306, run.Months)
	assert.Equal(t, dateutil.Date(2025, time.June, 15), run.RetirementDate)
	assert.Contains(t, run.Params, "high_3_salary")
}

func TestMonteCarloEndpoint(t *testing.T) {
	router := newTestRouter(t, false)

	seed := int64(11)
	rec := postJSON(t, router, "/api/montecarlo", MonteCarloRequest{
		Scenario: apiScenario("mc", 2025, 5),
		Config: config.MonteCarloDefaults{
			NumPaths:     25,
			COLAMean:     decimal.NewFromFloat(0.02),
			COLAStdDev:   decimal.NewFromFloat(0.01),
			GrowthMean:   decimal.NewFromFloat(0.05),
			GrowthStdDev: decimal.NewFromFloat(0.04),
			Seed:         &seed,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MonteCarloResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	require.NotNil(t, resp.Report.Result)
	assert.Equal(t, "mc", resp.Report.ScenarioName)
	assert.Equal(t, 25, resp.Report.Result.Paths)
	assert.Equal(t, 25, resp.Report.Result.SuccessfulPaths)

	// Jan 2025 through Jun 2030.
	assert.Len(t, resp.Report.Result.Income, 66)
	assert.Empty(t, resp.Report.Result.Balance)
	assert.NotEmpty(t, resp.Report.Snapshots)
	assert.Nil(t, resp.RunID)
}

func TestMonteCarloRejectsBadConfig(t *testing.T) {
	router := newTestRouter(t, false)

	rec := postJSON(t, router, "/api/montecarlo", MonteCarloRequest{
		Scenario: apiScenario("mc", 2025, 5),
		Config:   config.MonteCarloDefaults{NumPaths: 10, Distribution: "cauchy"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "simulation failed", resp.Error)
	assert.Contains(t, resp.Details, "cauchy")
}

func TestMonteCarloPersistsRun(t *testing.T) {
	router := newTestRouter(t, true)

	seed := int64(3)
	rec := postJSON(t, router, "/api/montecarlo", MonteCarloRequest{
		Scenario: apiScenario("mc saved", 2025, 5),
		Config:   config.MonteCarloDefaults{NumPaths: 10, Seed: &seed},
		Persist:  true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MonteCarloResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.RunID)

	got := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/runs/%d", *resp.RunID))
	require.Equal(t, http.StatusOK, got.Code)

	var run store.RunRecord
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &run))
	assert.Equal(t, store.RunMonteCarlo, run.Kind)
	assert.Equal(t, 66, run.Months)
	require.NotNil(t, run.DepletionProbability)
}

func TestCompareEndpoint(t *testing.T) {
	router := newTestRouter(t, false)

	rec := postJSON(t, router, "/api/compare", CompareRequest{
		ScenarioA: apiScenario("early", 2025, 25),
		ScenarioB: apiScenario("late", 2026, 25),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got compare.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "early", got.A.Name)
	assert.Equal(t, "late", got.B.Name)

	expectedDiff := got.B.LifetimeIncome.Sub(got.A.LifetimeIncome)
	assert.True(t, got.IncomeDiff.Equal(expectedDiff),
		"Expected %s, got %s", expectedDiff, got.IncomeDiff)

	require.NotNil(t, got.Breakeven)
	assert.Equal(t, 5, got.Breakeven.MonthIndex)
	assert.Nil(t, got.Household)
}

func TestCompareSurfacesScenarioErrors(t *testing.T) {
	router := newTestRouter(t, false)

	bad := apiScenario("late", 2026, 25)
	bad.SSStartAge = 55

	rec := postJSON(t, router, "/api/compare", CompareRequest{
		ScenarioA: apiScenario("early", 2025, 25),
		ScenarioB: bad,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "comparison failed", resp.Error)
	assert.Contains(t, resp.Details, "scenario B (late)")
}

func TestCompareWithHouseholdAndExpenses(t *testing.T) {
	router := newTestRouter(t, false)

	rec := postJSON(t, router, "/api/compare", CompareRequest{
		ScenarioA:        apiScenario("early", 2025, 25),
		ScenarioB:        apiScenario("late", 2026, 25),
		IncludeHousehold: true,
		Expenses: &domain.ExpenseParameters{
			PreRetirementMonthly:  decimal.NewFromInt(5000),
			PostRetirementMonthly: decimal.NewFromInt(4000),
			InflationRate:         decimal.NewFromFloat(0.03),
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got compare.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Household)
	assert.Len(t, got.Household.Records, 318)
	assert.Len(t, got.CashFlow, 318)
}

func TestRunsLifecycle(t *testing.T) {
	router := newTestRouter(t, true)

	for _, name := range []string{"first", "second"} {
		rec := postJSON(t, router, "/api/simulate", SimulateRequest{
			Scenario: apiScenario(name, 2025, 25),
			Persist:  true,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	list := doRequest(t, router, http.MethodGet, "/api/runs")
	require.Equal(t, http.StatusOK, list.Code)
	var runs []store.RunRecord
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Scenario)
	assert.Equal(t, "first", runs[1].Scenario)

	limited := doRequest(t, router, http.MethodGet, "/api/runs?limit=1")
	require.Equal(t, http.StatusOK, limited.Code)
	var one []store.RunRecord
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &one))
	assert.Len(t, one, 1)

	del := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/runs/%d", runs[0].ID))
	assert.Equal(t, http.StatusNoContent, del.Code)

	again := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/runs/%d", runs[0].ID))
	assert.Equal(t, http.StatusNotFound, again.Code)

	missing := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/runs/%d", runs[0].ID))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestListRunsEmpty(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doRequest(t, router, http.MethodGet, "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestRunsRejectBadParameters(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doRequest(t, router, http.MethodGet, "/api/runs/xyz")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run id must be an integer", resp.Error)

	rec = doRequest(t, router, http.MethodGet, "/api/runs?limit=0")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp = ErrorResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "limit must be a positive integer", resp.Error)
}

func TestRunsDisabledWithoutHistory(t *testing.T) {
	router := newTestRouter(t, false)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/runs"},
		{http.MethodGet, "/api/runs/1"},
		{http.MethodDelete, "/api/runs/1"},
	} {
		rec := doRequest(t, router, tc.method, tc.path)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", tc.method, tc.path)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "run history is disabled", resp.Error)
	}
}
