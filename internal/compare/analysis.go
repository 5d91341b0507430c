package compare

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

// FindBreakeven locates the month the cumulative income curves cross:
// the first index, scanning from month 1, where the sign of B minus A
// flips. Returns nil when one scenario leads for the entire horizon.
// The reported cumulative figure is scenario A's at the crossover.
func FindBreakeven(a, b *domain.SimulationResult) *domain.BreakevenPoint {
	n := len(a.CumulativeIncome)
	if len(b.CumulativeIncome) < n {
		n = len(b.CumulativeIncome)
	}
	if n < 2 {
		return nil
	}

	delta := make([]decimal.Decimal, n)
	hasNonPositive, hasNonNegative := false, false
	for i := 0; i < n; i++ {
		delta[i] = b.CumulativeIncome[i].Sub(a.CumulativeIncome[i])
		if !delta[i].IsPositive() {
			hasNonPositive = true
		}
		if !delta[i].IsNegative() {
			hasNonNegative = true
		}
	}
	if !hasNonPositive || !hasNonNegative {
		return nil
	}

	for i := 1; i < n; i++ {
		rises := !delta[i-1].IsPositive() && delta[i].IsPositive()
		falls := !delta[i-1].IsNegative() && delta[i].IsNegative()
		if rises || falls {
			return &domain.BreakevenPoint{
				MonthIndex:       i,
				Date:             a.Records[i].Date,
				CumulativeIncome: a.CumulativeIncome[i],
			}
		}
	}
	return nil
}

// CombineHousehold sums two income series into one household view,
// aligned by month over the union of both windows. A month covered by
// only one scenario contributes that scenario alone. Balances add so the
// combined TSP position stays visible.
func CombineHousehold(a, b *domain.SimulationResult) *domain.SimulationResult {
	if len(a.Records) == 0 && len(b.Records) == 0 {
		return &domain.SimulationResult{ScenarioName: "household"}
	}

	start, end := unionWindow(a, b)
	months := dateutil.MonthSpan(start, end) + 1

	records := make([]domain.MonthlyRecord, 0, months)
	date := start
	for i := 0; i < months; i++ {
		rec := domain.MonthlyRecord{Date: date}
		for _, res := range []*domain.SimulationResult{a, b} {
			idx := res.IndexOf(date)
			if idx < 0 {
				continue
			}
			r := res.Records[idx]
			rec.Salary = rec.Salary.Add(r.Salary)
			rec.FERSAnnuity = rec.FERSAnnuity.Add(r.FERSAnnuity)
			rec.FERSSupplement = rec.FERSSupplement.Add(r.FERSSupplement)
			rec.TSPWithdrawal = rec.TSPWithdrawal.Add(r.TSPWithdrawal)
			rec.SocialSecurity = rec.SocialSecurity.Add(r.SocialSecurity)
			rec.FEHBPremium = rec.FEHBPremium.Add(r.FEHBPremium)
			rec.MedicarePremium = rec.MedicarePremium.Add(r.MedicarePremium)
			rec.TSPBalance = rec.TSPBalance.Add(r.TSPBalance)
			rec.RMDAmount = rec.RMDAmount.Add(r.RMDAmount)
		}
		rec.TotalIncome = rec.ComponentSum()
		records = append(records, rec)
		date = dateutil.AddMonths(date, 1)
	}

	return &domain.SimulationResult{
		ScenarioName:     "household",
		Records:          records,
		CumulativeIncome: domain.AccumulateIncome(records),
	}
}

func unionWindow(a, b *domain.SimulationResult) (time.Time, time.Time) {
	var start, end time.Time
	for _, res := range []*domain.SimulationResult{a, b} {
		if len(res.Records) == 0 {
			continue
		}
		first := res.Records[0].Date
		last := res.Records[len(res.Records)-1].Date
		if start.IsZero() || first.Before(start) {
			start = first
		}
		if end.IsZero() || last.After(end) {
			end = last
		}
	}
	return start, end
}

// MonthlyExpenses projects living expenses across the given dates. The base
// switches from the pre- to the post-retirement amount at the retirement
// date, and inflation compounds continuously by fractional years from the
// first date.
func MonthlyExpenses(dates []time.Time, retireDate time.Time, params domain.ExpenseParameters) []decimal.Decimal {
	expenses := make([]decimal.Decimal, len(dates))
	if len(dates) == 0 {
		return expenses
	}

	inflation := params.InflationRate.InexactFloat64()
	start := dates[0]
	for i, date := range dates {
		base := params.PostRetirementMonthly
		if date.Before(retireDate) {
			base = params.PreRetirementMonthly
		}
		years := float64(dateutil.MonthSpan(start, date)) / 12
		factor := math.Pow(1+inflation, years)
		expenses[i] = base.Mul(decimal.NewFromFloat(factor))
	}
	return expenses
}

// BuildCashFlow nets inflation-adjusted expenses against an income series
// and accumulates the running balance of the difference.
func BuildCashFlow(result *domain.SimulationResult, retireDate time.Time, params domain.ExpenseParameters) []domain.CashFlowRecord {
	dates := make([]time.Time, len(result.Records))
	for i, rec := range result.Records {
		dates[i] = rec.Date
	}
	expenses := MonthlyExpenses(dates, retireDate, params)

	flows := make([]domain.CashFlowRecord, len(result.Records))
	running := decimal.Zero
	for i, rec := range result.Records {
		net := rec.TotalIncome.Sub(expenses[i])
		running = running.Add(net)
		flows[i] = domain.CashFlowRecord{
			Date:          rec.Date,
			Income:        rec.TotalIncome,
			Expenses:      expenses[i],
			Net:           net,
			CumulativeNet: running,
		}
	}
	return flows
}
