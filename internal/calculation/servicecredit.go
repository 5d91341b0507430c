package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/pkg/dateutil"
)

// hoursPerCreditMonth is the number of paid hours equal to one month of
// credited service when converting unused sick leave.
var hoursPerCreditMonth = decimal.NewFromInt(174)

var monthsPerYear = decimal.NewFromInt(12)

// ServiceCreditCalculator converts a federal career span plus unused sick
// leave into credited service years.
type ServiceCreditCalculator struct{}

// NewServiceCreditCalculator creates a service credit calculator.
func NewServiceCreditCalculator() *ServiceCreditCalculator {
	return &ServiceCreditCalculator{}
}

// CreditedYears returns calendar months between hire and retirement divided
// by twelve, plus sick leave converted at 174 hours per credited month.
// Service is counted at month resolution; days within a month do not add
// credit. Zero sick leave is fine.
func (scc *ServiceCreditCalculator) CreditedYears(hireDate, retirementDate time.Time, sickLeaveHours decimal.Decimal) decimal.Decimal {
	months := decimal.NewFromInt(int64(dateutil.MonthSpan(hireDate, retirementDate)))
	years := months.Div(monthsPerYear)

	sickLeaveMonths := sickLeaveHours.Div(hoursPerCreditMonth)
	return years.Add(sickLeaveMonths.Div(monthsPerYear))
}
