package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PercentileRow holds the per-month spread of a simulated quantity across
// all successful Monte Carlo paths.
type PercentileRow struct {
	Date time.Time       `json:"date"`
	P5   decimal.Decimal `json:"p5"`
	P10  decimal.Decimal `json:"p10"`
	P25  decimal.Decimal `json:"p25"`
	P50  decimal.Decimal `json:"p50"`
	P75  decimal.Decimal `json:"p75"`
	P90  decimal.Decimal `json:"p90"`
	P95  decimal.Decimal `json:"p95"`
}

// RiskMetrics summarizes a Monte Carlo batch. DepletionProbability,
// BelowStartProbability, SignificantDropProbability, and MaxDrawdownPercent
// are percentages in [0,100].
type RiskMetrics struct {
	// DepletionProbability is the share of successful paths whose TSP
	// balance fell below the depletion threshold at any month.
	DepletionProbability decimal.Decimal `json:"depletion_probability"`
	// MaxDrawdownPercent is the worst-case income drop: the gap between the
	// starting income and the minimum of the p5 income series, as a
	// percentage of starting income.
	MaxDrawdownPercent decimal.Decimal `json:"max_drawdown_percent"`
	// MinP5Income is the floor of the p5 income series in dollars.
	MinP5Income decimal.Decimal `json:"min_p5_income"`
	// Volatility is the standard deviation of the median income series
	// across the horizon, in dollars.
	Volatility decimal.Decimal `json:"volatility"`
	// BelowStartProbability is the share of months whose median income sits
	// below the starting income.
	BelowStartProbability decimal.Decimal `json:"below_start_probability"`
	// SignificantDropProbability is the share of months whose p25 income
	// sits below 80% of the starting income.
	SignificantDropProbability decimal.Decimal `json:"significant_drop_probability"`
	// StartingIncome is the reference income the drop metrics compare
	// against: the median income of the first simulated month.
	StartingIncome decimal.Decimal `json:"starting_income"`
}

// MonteCarloResult is the reduced output of a batch run. Income always
// carries one row per simulated month; Balance is populated only when
// balance tracking was requested. When every path fails both tables are
// empty and Errors explains why; callers detect that case through
// SuccessfulPaths.
type MonteCarloResult struct {
	Paths           int `json:"paths"`
	SuccessfulPaths int `json:"successful_paths"`

	Income  []PercentileRow `json:"income"`
	Balance []PercentileRow `json:"balance,omitempty"`

	Metrics RiskMetrics `json:"metrics"`
	Errors  []PathError `json:"errors,omitempty"`

	// RawIncome holds each successful path's full income series, indexed by
	// path id, when the caller asked to keep them. Failed paths leave a nil
	// row.
	RawIncome [][]decimal.Decimal `json:"-"`
}

// SummarySnapshot is one labeled row of the scenario summary: the median
// and the 10/90 band at a milestone month.
type SummarySnapshot struct {
	Label  string          `json:"label"`
	Date   time.Time       `json:"date"`
	Median decimal.Decimal `json:"median"`
	P10    decimal.Decimal `json:"p10"`
	P90    decimal.Decimal `json:"p90"`
}

// Snapshot returns the summary row nearest the given date, scanning the
// income table. The second return is false when the table is empty.
func (r *MonteCarloResult) Snapshot(label string, date time.Time) (SummarySnapshot, bool) {
	if len(r.Income) == 0 {
		return SummarySnapshot{}, false
	}
	best := 0
	bestGap := absDuration(r.Income[0].Date.Sub(date))
	for i, row := range r.Income[1:] {
		if gap := absDuration(row.Date.Sub(date)); gap < bestGap {
			best, bestGap = i+1, gap
		}
	}
	row := r.Income[best]
	return SummarySnapshot{Label: label, Date: row.Date, Median: row.P50, P10: row.P10, P90: row.P90}, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
