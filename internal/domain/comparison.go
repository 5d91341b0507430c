package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BreakevenPoint marks the month where one scenario's cumulative income
// overtakes the other's.
type BreakevenPoint struct {
	MonthIndex       int             `json:"month_index"`
	Date             time.Time       `json:"date"`
	CumulativeIncome decimal.Decimal `json:"cumulative_income"`
}

// ExpenseParameters drives the expense overlay: a pre-retirement and a
// post-retirement monthly base, inflated continuously from the first
// simulated month.
type ExpenseParameters struct {
	PreRetirementMonthly  decimal.Decimal `yaml:"pre_retirement_monthly" json:"pre_retirement_monthly"`
	PostRetirementMonthly decimal.Decimal `yaml:"post_retirement_monthly" json:"post_retirement_monthly"`
	InflationRate         decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
}

// CashFlowRecord is one month of income versus expenses.
type CashFlowRecord struct {
	Date          time.Time       `json:"date"`
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	Net           decimal.Decimal `json:"net"`
	CumulativeNet decimal.Decimal `json:"cumulative_net"`
}
