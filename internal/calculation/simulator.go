package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

var (
	twelve    = decimal.NewFromInt(12)
	one       = decimal.NewFromInt(1)
	twentySix = decimal.NewFromInt(26)
)

// Simulator is the monthly retirement income engine. It steps calendar
// months from the simulation start through retirement + horizon, emitting
// one record per month across three regimes: Working, a single prorated
// transition month, and Retired.
//
// A Simulator holds only stateless calculators, so one instance may run
// any number of scenarios concurrently; each call owns its running balance.
type Simulator struct {
	federalTax *FederalTaxCalculator
	ss         *SocialSecurityCalculator
	fers       *FERSCalculator
	service    *ServiceCreditCalculator
	rmd        *RMDCalculator
	tsp        *TSPCalculator
	medicare   *MedicareCalculator
	logger     Logger
}

// NewSimulator wires the engine with its default calculators.
func NewSimulator() *Simulator {
	return &Simulator{
		federalTax: NewFederalTaxCalculator(),
		ss:         NewSocialSecurityCalculator(),
		fers:       NewFERSCalculator(),
		service:    NewServiceCreditCalculator(),
		rmd:        NewRMDCalculator(),
		tsp:        NewTSPCalculator(),
		medicare:   NewMedicareCalculator(),
		logger:     NopLogger{},
	}
}

// SetLogger installs a logger; nil restores the no-op default.
func (s *Simulator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	s.logger = l
}

// simRun carries the per-invocation state resolved once before the monthly
// loop: rate schedules, derived benefit figures, and key dates.
type simRun struct {
	params domain.ScenarioParameters

	colaByMonth   []decimal.Decimal
	growthByMonth []decimal.Decimal

	serviceYears decimal.Decimal
	grossAnnuity decimal.Decimal

	stateRate      decimal.Decimal
	salaryFedRate  decimal.Decimal
	ssAtClaim      decimal.Decimal
	ssAt62         decimal.Decimal
	supplementBase decimal.Decimal

	policy WithdrawalPolicy

	retireMonth time.Time
	claimDate   time.Time
	age62Date   time.Time
}

// retiredValues are the fully computed Retired-phase figures for one month,
// before any transition proration.
type retiredValues struct {
	annuity    decimal.Decimal
	supplement decimal.Decimal
	tspNet     decimal.Decimal
	ss         decimal.Decimal
	fehb       decimal.Decimal
	medicare   decimal.Decimal
	rmd        decimal.Decimal
}

// Project runs one deterministic simulation. It validates the parameters
// first and returns the aggregated validation error without doing any work
// when any rule is violated; a returned result is always complete.
func (s *Simulator) Project(params domain.ScenarioParameters) (*domain.SimulationResult, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.project(params), nil
}

// project is the loop behind Project. Callers must pass normalized,
// validated parameters; the Monte Carlo runner enters here so sampled rate
// paths are not subject to the non-negativity rules on user input.
func (s *Simulator) project(params domain.ScenarioParameters) *domain.SimulationResult {
	run := s.prepare(params)

	monthCount := params.MonthCount()
	records := make([]domain.MonthlyRecord, 0, monthCount)

	balance := params.TSPStartingBalance
	date := params.SimulationStart()

	for idx := 0; idx < monthCount; idx++ {
		var rec domain.MonthlyRecord

		cola := run.colaByMonth[idx]
		growth := run.growthByMonth[idx]

		switch {
		case dateutil.SameMonth(date, params.RetirementDate) && params.RetirementDate.Day() > 1:
			rec, balance = s.transitionMonth(run, date, cola, growth, balance)
		case date.Before(params.RetirementDate):
			rec, balance = s.workingMonth(run, date, growth, balance)
		default:
			var rv retiredValues
			years := dateutil.WholeYears(run.retireMonth, date)
			rv, balance = s.retiredMonth(run, date, cola, growth, balance, years)
			rec = domain.MonthlyRecord{
				Date:            date,
				FERSAnnuity:     rv.annuity,
				FERSSupplement:  rv.supplement,
				TSPWithdrawal:   rv.tspNet,
				SocialSecurity:  rv.ss,
				FEHBPremium:     rv.fehb,
				MedicarePremium: rv.medicare,
				RMDAmount:       rv.rmd,
			}
		}

		rec.Date = date
		rec.TSPBalance = balance
		rec.TotalIncome = rec.ComponentSum()
		records = append(records, rec)

		date = dateutil.AddMonths(date, 1)
	}

	s.enforcePostRetirementSalary(records, run.retireMonth)

	return &domain.SimulationResult{
		ScenarioName:     params.Name,
		Records:          records,
		CumulativeIncome: domain.AccumulateIncome(records),
	}
}

// prepare resolves everything the monthly loop consumes: rate lookups,
// credited service, the gross annuity, benefit bases, and key dates.
func (s *Simulator) prepare(params domain.ScenarioParameters) *simRun {
	monthCount := params.MonthCount()

	growth := params.TSPGrowth
	if weighted, ok := WeightedFundGrowth(params.FundAllocation); ok {
		growth = domain.Rate(weighted)
	}

	serviceYears := s.service.CreditedYears(params.HireDate, params.RetirementDate, params.SickLeaveHours)
	multiplier := s.fers.Multiplier(params.BirthDate, params.RetirementDate, serviceYears)
	grossAnnuity := s.fers.GrossAnnuity(params.High3Salary, serviceYears, multiplier, params.SurvivorElection.Reduction())

	ssAt62 := s.ss.MonthlyBenefit(62, params.SSBenefitOverride)

	return &simRun{
		params:         params,
		colaByMonth:    params.COLA.Resolve(monthCount),
		growthByMonth:  growth.Resolve(monthCount),
		serviceYears:   serviceYears,
		grossAnnuity:   grossAnnuity,
		stateRate:      NewStateTaxCalculator(params.PAResident).EffectiveRate(),
		salaryFedRate:  s.federalTax.EffectiveRate(params.High3Salary, params.FilingStatus),
		ssAtClaim:      s.ss.MonthlyBenefit(params.SSStartAge, params.SSBenefitOverride),
		ssAt62:         ssAt62,
		supplementBase: s.fers.Supplement(serviceYears, ssAt62),
		policy:         PolicyFor(params.WithdrawalStrategy, params.TSPWithdrawalRate),
		retireMonth:    dateutil.FirstOfMonth(params.RetirementDate),
		claimDate:      params.SSClaimDate(),
		age62Date:      dateutil.Anniversary(params.BirthDate, 62),
	}
}

// workingMonth produces the pre-retirement record: salary net of both
// effective rates, plus TSP accumulation. Contributions land before the
// month's growth is applied.
func (s *Simulator) workingMonth(run *simRun, date time.Time, growth, balance decimal.Decimal) (domain.MonthlyRecord, decimal.Decimal) {
	grossMonthly := run.params.High3Salary.Div(twelve)
	netSalary := grossMonthly.Mul(one.Sub(run.salaryFedRate).Sub(run.stateRate))

	if run.params.BiweeklyTSPContribution.IsPositive() {
		biweeklySalary := run.params.EffectiveCurrentSalary().Div(twentySix)
		match := s.tsp.BiweeklyMatch(biweeklySalary, run.params.BiweeklyTSPContribution, run.params.MatchingContribution)
		monthly := s.tsp.MonthlyContribution(run.params.BiweeklyTSPContribution.Add(match))
		balance = balance.Add(monthly)
	}
	balance = balance.Mul(one.Add(growth.Div(twelve)))

	return domain.MonthlyRecord{Date: date, Salary: netSalary}, balance
}

// retiredMonth produces the fully retired figures for one month from the
// opening balance. wholeYears is the completed years since the retirement
// month and drives COLA and premium compounding.
func (s *Simulator) retiredMonth(run *simRun, date time.Time, cola, growth, balance decimal.Decimal, wholeYears int) (retiredValues, decimal.Decimal) {
	var rv retiredValues

	age := dateutil.Age(run.params.BirthDate, date)

	// FERS annuity, taxed at its own effective rate.
	monthlyAnnuity := ApplyCOLA(run.grossAnnuity.Div(twelve), cola, wholeYears)
	annuityFedRate := s.federalTax.EffectiveRate(monthlyAnnuity.Mul(twelve), run.params.FilingStatus)
	rv.annuity = monthlyAnnuity.Mul(one.Sub(annuityFedRate))

	// Supplement bridges retirement to age 62 for 20+ year careers.
	if date.Before(run.age62Date) && run.serviceYears.GreaterThanOrEqual(bonusServiceFloor) {
		rv.supplement = run.supplementBase.Mul(one.Sub(annuityFedRate))
	}

	// TSP withdrawal per the elected policy, then growth on the remainder.
	rv.rmd = s.rmd.MonthlyRMD(age, balance)
	rate := run.policy.MonthlyRate(balance, rv.rmd)
	draw := decimal.Zero
	if balance.IsPositive() {
		draw = balance.Mul(rate)
	}
	drawFedRate := s.federalTax.EffectiveRate(draw.Mul(twelve), run.params.FilingStatus)
	rv.tspNet = draw.Mul(one.Sub(drawFedRate))
	balance = balance.Sub(draw).Mul(one.Add(growth.Div(twelve)))
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	// Social Security from the claim date, COLA-compounded from then.
	if !date.Before(run.claimDate) {
		yearsOnSS := dateutil.WholeYears(dateutil.FirstOfMonth(run.claimDate), date)
		monthlySS := ApplyCOLA(run.ssAtClaim, cola, yearsOnSS)
		combined := monthlyAnnuity.Add(draw).Add(monthlySS)
		taxable := monthlySS.Mul(s.ss.TaxablePortion(combined))
		rv.ss = monthlySS.Sub(taxable.Mul(annuityFedRate))
		if rv.ss.IsNegative() {
			rv.ss = decimal.Zero
		}
	}

	// Premiums are negative components.
	premium := ApplyCOLA(run.params.FEHBPremium, run.params.FEHBGrowthRate, wholeYears)
	rv.fehb = premium.Neg()
	rv.medicare = s.medicare.MonthlyPremium(age, run.params.IncludeMedicare).Neg()

	return rv, balance
}

// transitionMonth blends the Working and Retired phases across the month
// containing the retirement date. Both phases are computed in full from the
// same opening balance with zero years retired, then every Working quantity
// is scaled by the pre-retirement day share and every Retired quantity by
// the remainder. The closing balance is the same day-weighted blend, so the
// recorded withdrawal is the portion that actually left the account.
func (s *Simulator) transitionMonth(run *simRun, date time.Time, cola, growth, balance decimal.Decimal) (domain.MonthlyRecord, decimal.Decimal) {
	daysInMonth := decimal.NewFromInt(int64(dateutil.DaysInMonth(date)))
	workingDays := decimal.NewFromInt(int64(run.params.RetirementDate.Day() - 1))
	workingRatio := workingDays.Div(daysInMonth)
	retiredRatio := one.Sub(workingRatio)

	workingRec, workingBalance := s.workingMonth(run, date, growth, balance)
	rv, retiredBalance := s.retiredMonth(run, date, cola, growth, balance, 0)

	rec := domain.MonthlyRecord{
		Date:            date,
		Salary:          workingRec.Salary.Mul(workingRatio),
		FERSAnnuity:     rv.annuity.Mul(retiredRatio),
		FERSSupplement:  rv.supplement.Mul(retiredRatio),
		TSPWithdrawal:   rv.tspNet.Mul(retiredRatio),
		SocialSecurity:  rv.ss.Mul(retiredRatio),
		FEHBPremium:     rv.fehb.Mul(retiredRatio),
		MedicarePremium: rv.medicare.Mul(retiredRatio),
		RMDAmount:       rv.rmd.Mul(retiredRatio),
	}

	blended := workingBalance.Mul(workingRatio).Add(retiredBalance.Mul(retiredRatio))
	return rec, blended
}

// enforcePostRetirementSalary zeroes any salary appearing strictly after
// the retirement month and recomputes that row's total. The transition
// arithmetic never produces one, so a hit indicates a regression; it is
// logged rather than silently absorbed.
func (s *Simulator) enforcePostRetirementSalary(records []domain.MonthlyRecord, retireMonth time.Time) {
	for i := range records {
		if !records[i].Date.After(retireMonth) {
			continue
		}
		if records[i].Salary.IsZero() {
			continue
		}
		s.logger.Warnf("nonzero salary %s in post-retirement month %s; zeroing",
			records[i].Salary.StringFixed(2), records[i].Date.Format("2006-01"))
		records[i].Salary = decimal.Zero
		records[i].TotalIncome = records[i].ComponentSum()
	}
}
