package output

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
)

// ProjectionFormatter renders a single simulation result.
type ProjectionFormatter interface {
	Name() string
	Format(result *domain.SimulationResult) ([]byte, error)
}

// MonteCarloReport bundles a batch result with its scenario context for
// rendering.
type MonteCarloReport struct {
	ScenarioName string                   `json:"scenario_name,omitempty"`
	Result       *domain.MonteCarloResult `json:"result"`
	Snapshots    []domain.SummarySnapshot `json:"snapshots,omitempty"`
}

// MonteCarloFormatter renders a Monte Carlo report.
type MonteCarloFormatter interface {
	Name() string
	Format(report *MonteCarloReport) ([]byte, error)
}

// RenderProjection renders a simulation result in the named format:
// console, csv, or json.
func RenderProjection(result *domain.SimulationResult, format string) ([]byte, error) {
	switch format {
	case "console":
		return ConsoleProjectionFormatter{}.Format(result)
	case "csv":
		return CSVProjectionFormatter{}.Format(result)
	case "json":
		return JSONProjectionFormatter{Pretty: true}.Format(result)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderMonteCarlo renders a batch report in the named format: console,
// csv, or json.
func RenderMonteCarlo(report *MonteCarloReport, format string) ([]byte, error) {
	switch format {
	case "console":
		return ConsoleMonteCarloFormatter{}.Format(report)
	case "csv":
		return CSVMonteCarloFormatter{}.Format(report)
	case "json":
		return JSONMonteCarloFormatter{Pretty: true}.Format(report)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatCurrency formats a decimal as currency.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
