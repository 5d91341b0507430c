package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRecord is one row of simulation output: every income component is
// net of tax, the two premium fields are negative, and TotalIncome is
// exactly the sum of the component columns. TSPBalance is the end-of-month
// balance after that month's withdrawal and growth.
type MonthlyRecord struct {
	Date time.Time `json:"date"`

	Salary          decimal.Decimal `json:"salary"`
	FERSAnnuity     decimal.Decimal `json:"fers_annuity"`
	FERSSupplement  decimal.Decimal `json:"fers_supplement"`
	TSPWithdrawal   decimal.Decimal `json:"tsp_withdrawal"`
	SocialSecurity  decimal.Decimal `json:"social_security"`
	FEHBPremium     decimal.Decimal `json:"fehb_premium"`
	MedicarePremium decimal.Decimal `json:"medicare_premium"`

	TotalIncome decimal.Decimal `json:"total_income"`
	TSPBalance  decimal.Decimal `json:"tsp_balance"`
	RMDAmount   decimal.Decimal `json:"rmd_amount"`
}

// ComponentSum recomputes the total from the component columns.
func (m MonthlyRecord) ComponentSum() decimal.Decimal {
	return m.Salary.
		Add(m.FERSAnnuity).
		Add(m.FERSSupplement).
		Add(m.TSPWithdrawal).
		Add(m.SocialSecurity).
		Add(m.FEHBPremium).
		Add(m.MedicarePremium)
}

// SimulationResult is the full ordered output of one engine run plus the
// derived cumulative income series, index-aligned with Records.
type SimulationResult struct {
	ScenarioName     string            `json:"scenario_name,omitempty"`
	Records          []MonthlyRecord   `json:"records"`
	CumulativeIncome []decimal.Decimal `json:"cumulative_income"`
}

// AccumulateIncome returns the running sum of total income over the records.
func AccumulateIncome(records []MonthlyRecord) []decimal.Decimal {
	out := make([]decimal.Decimal, len(records))
	running := decimal.Zero
	for i, rec := range records {
		running = running.Add(rec.TotalIncome)
		out[i] = running
	}
	return out
}

// Months returns the number of simulated months.
func (r *SimulationResult) Months() int { return len(r.Records) }

// FinalBalance returns the TSP balance at the end of the horizon, or zero
// for an empty result.
func (r *SimulationResult) FinalBalance() decimal.Decimal {
	if len(r.Records) == 0 {
		return decimal.Zero
	}
	return r.Records[len(r.Records)-1].TSPBalance
}

// TotalIncomeSeries extracts the per-month net income column.
func (r *SimulationResult) TotalIncomeSeries() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.TotalIncome
	}
	return out
}

// BalanceSeries extracts the end-of-month TSP balance column.
func (r *SimulationResult) BalanceSeries() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.TSPBalance
	}
	return out
}

// IndexOf returns the index of the record for the month containing the
// given date, or -1 when the date falls outside the simulated range.
func (r *SimulationResult) IndexOf(date time.Time) int {
	for i, rec := range r.Records {
		if rec.Date.Year() == date.Year() && rec.Date.Month() == date.Month() {
			return i
		}
	}
	return -1
}
