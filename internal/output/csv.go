package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/retire/internal/domain"
)

// CSVProjectionFormatter writes the full monthly table, one row per
// simulated month.
type CSVProjectionFormatter struct{}

func (c CSVProjectionFormatter) Name() string { return "csv" }

func (c CSVProjectionFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"Date", "Salary", "FERS Annuity", "FERS Supplement", "TSP Withdrawal",
		"Social Security", "FEHB Premium", "Medicare Premium", "Total Income",
		"TSP Balance", "RMD", "Cumulative Income",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i, rec := range result.Records {
		row := []string{
			rec.Date.Format("2006-01"),
			rec.Salary.StringFixed(2),
			rec.FERSAnnuity.StringFixed(2),
			rec.FERSSupplement.StringFixed(2),
			rec.TSPWithdrawal.StringFixed(2),
			rec.SocialSecurity.StringFixed(2),
			rec.FEHBPremium.StringFixed(2),
			rec.MedicarePremium.StringFixed(2),
			rec.TotalIncome.StringFixed(2),
			rec.TSPBalance.StringFixed(2),
			rec.RMDAmount.StringFixed(2),
			result.CumulativeIncome[i].StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVMonteCarloFormatter writes the per-month income percentile table.
type CSVMonteCarloFormatter struct{}

func (c CSVMonteCarloFormatter) Name() string { return "csv" }

func (c CSVMonteCarloFormatter) Format(report *MonteCarloReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Date", "P5", "P10", "P25", "P50", "P75", "P90", "P95"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Result.Income {
		record := []string{
			row.Date.Format("2006-01"),
			row.P5.StringFixed(2),
			row.P10.StringFixed(2),
			row.P25.StringFixed(2),
			row.P50.StringFixed(2),
			row.P75.StringFixed(2),
			row.P90.StringFixed(2),
			row.P95.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
