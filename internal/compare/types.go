package compare

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
)

// ScenarioMetrics condenses one simulation into the figures shown
// side by side: first-year income, lifetime income, and what became of
// the TSP.
type ScenarioMetrics struct {
	Name            string          `json:"name"`
	FirstYearIncome decimal.Decimal `json:"first_year_income"`
	LifetimeIncome  decimal.Decimal `json:"lifetime_income"`
	FinalTSPBalance decimal.Decimal `json:"final_tsp_balance"`
	// TSPDepletedAt is the first month the balance reached zero, nil when
	// the account survives the whole projection.
	TSPDepletedAt *time.Time `json:"tsp_depleted_at,omitempty"`
}

// Comparison is the full result of an A/B scenario comparison.
type Comparison struct {
	A ScenarioMetrics `json:"a"`
	B ScenarioMetrics `json:"b"`

	// IncomeDiff is B's lifetime income minus A's; IncomePct expresses it
	// as a percentage of A's.
	IncomeDiff decimal.Decimal `json:"income_diff"`
	IncomePct  decimal.Decimal `json:"income_pct"`

	// Breakeven marks where the cumulative income curves cross, nil when
	// one scenario dominates throughout.
	Breakeven *domain.BreakevenPoint `json:"breakeven,omitempty"`

	// Household is the combined two-person income series, present when
	// requested.
	Household *domain.SimulationResult `json:"household,omitempty"`

	// CashFlow overlays inflation-adjusted expenses, present when expense
	// parameters were supplied.
	CashFlow []domain.CashFlowRecord `json:"cash_flow,omitempty"`

	ResultA *domain.SimulationResult `json:"-"`
	ResultB *domain.SimulationResult `json:"-"`
}

// MetricsCalculator extracts display metrics from simulation results.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a metrics calculator.
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics reduces one simulation to its headline figures.
func (mc *MetricsCalculator) CalculateMetrics(result *domain.SimulationResult) ScenarioMetrics {
	metrics := ScenarioMetrics{Name: result.ScenarioName}

	firstYear := decimal.Zero
	for i, rec := range result.Records {
		if i < 12 {
			firstYear = firstYear.Add(rec.TotalIncome)
		}
		if metrics.TSPDepletedAt == nil && !rec.TSPBalance.IsPositive() {
			date := rec.Date
			metrics.TSPDepletedAt = &date
		}
	}
	metrics.FirstYearIncome = firstYear
	metrics.FinalTSPBalance = result.FinalBalance()

	if n := len(result.CumulativeIncome); n > 0 {
		metrics.LifetimeIncome = result.CumulativeIncome[n-1]
	}
	return metrics
}

// CalculateDiffs fills the B-versus-A deltas on a comparison.
func (mc *MetricsCalculator) CalculateDiffs(cmp *Comparison) {
	cmp.IncomeDiff = cmp.B.LifetimeIncome.Sub(cmp.A.LifetimeIncome)
	if cmp.A.LifetimeIncome.IsZero() {
		cmp.IncomePct = decimal.Zero
		return
	}
	cmp.IncomePct = cmp.IncomeDiff.Div(cmp.A.LifetimeIncome).Mul(decimal.NewFromInt(100))
}
