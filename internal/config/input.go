package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/retire/internal/calculation"
	"github.com/rgehrsitz/retire/internal/domain"
)

// ScenarioFile is the YAML document the CLI and API consume: a single
// scenario for a plain run, or a two-entry list for comparison, plus
// optional expense and Monte Carlo blocks.
type ScenarioFile struct {
	Scenario  *domain.ScenarioParameters  `yaml:"scenario,omitempty"`
	Scenarios []domain.ScenarioParameters `yaml:"scenarios,omitempty"`

	Expenses   *domain.ExpenseParameters `yaml:"expenses,omitempty"`
	MonteCarlo *MonteCarloDefaults       `yaml:"monte_carlo,omitempty"`
}

// MonteCarloDefaults is the optional monte_carlo block of a scenario file.
// The HTTP API accepts the same shape as JSON. Omitted fields fall back to
// the runner defaults.
type MonteCarloDefaults struct {
	NumPaths     int             `yaml:"num_paths,omitempty" json:"num_paths,omitempty"`
	COLAMean     decimal.Decimal `yaml:"cola_mean" json:"cola_mean"`
	COLAStdDev   decimal.Decimal `yaml:"cola_std_dev" json:"cola_std_dev"`
	GrowthMean   decimal.Decimal `yaml:"growth_mean" json:"growth_mean"`
	GrowthStdDev decimal.Decimal `yaml:"growth_std_dev" json:"growth_std_dev"`
	Distribution string          `yaml:"distribution,omitempty" json:"distribution,omitempty"`
	Seed         *int64          `yaml:"seed,omitempty" json:"seed,omitempty"`

	TrackBalance       bool            `yaml:"track_balance,omitempty" json:"track_balance,omitempty"`
	DepletionThreshold decimal.Decimal `yaml:"depletion_threshold" json:"depletion_threshold"`
}

// Config maps the block onto a runner configuration.
func (d *MonteCarloDefaults) Config() calculation.MonteCarloConfig {
	return calculation.MonteCarloConfig{
		NumPaths:           d.NumPaths,
		COLAMean:           d.COLAMean,
		COLAStdDev:         d.COLAStdDev,
		GrowthMean:         d.GrowthMean,
		GrowthStdDev:       d.GrowthStdDev,
		Distribution:       calculation.Distribution(d.Distribution),
		Seed:               d.Seed,
		TrackBalance:       d.TrackBalance,
		DepletionThreshold: d.DepletionThreshold,
	}
}

// Primary returns the scenario a single-run command operates on: the lone
// scenario, or the first list entry. Valid only on a validated file.
func (f *ScenarioFile) Primary() domain.ScenarioParameters {
	if f.Scenario != nil {
		return *f.Scenario
	}
	return f.Scenarios[0]
}

// Pair returns the two scenarios of a comparison file.
func (f *ScenarioFile) Pair() (domain.ScenarioParameters, domain.ScenarioParameters, error) {
	if len(f.Scenarios) != 2 {
		var zero domain.ScenarioParameters
		return zero, zero, fmt.Errorf("comparison requires a scenarios list with exactly two entries, got %d", len(f.Scenarios))
	}
	return f.Scenarios[0], f.Scenarios[1], nil
}

// InputParser handles parsing of scenario input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a scenario file.
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	file, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return file, nil
}

// Parse decodes and validates a scenario document.
func (ip *InputParser) Parse(data []byte) (*ScenarioFile, error) {
	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateFile(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ValidateFile checks the document shape, then normalizes and validates
// every embedded scenario. Scenario names default to their position so
// comparison output always has labels.
func (ip *InputParser) ValidateFile(file *ScenarioFile) error {
	if file.Scenario == nil && len(file.Scenarios) == 0 {
		return fmt.Errorf("no scenario defined: provide a scenario block or a scenarios list")
	}
	if file.Scenario != nil && len(file.Scenarios) > 0 {
		return fmt.Errorf("provide either scenario or scenarios, not both")
	}
	if len(file.Scenarios) > 2 {
		return fmt.Errorf("at most two scenarios are supported, got %d", len(file.Scenarios))
	}

	if file.Scenario != nil {
		file.Scenario.Normalize()
		if file.Scenario.Name == "" {
			file.Scenario.Name = "scenario"
		}
		if err := file.Scenario.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", file.Scenario.Name, err)
		}
	}
	for i := range file.Scenarios {
		sc := &file.Scenarios[i]
		sc.Normalize()
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	if file.Expenses != nil {
		if err := validateExpenses(file.Expenses); err != nil {
			return fmt.Errorf("expenses: %w", err)
		}
	}
	if file.MonteCarlo != nil {
		cfg := file.MonteCarlo.Config()
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("monte_carlo: %w", err)
		}
	}
	return nil
}

func validateExpenses(e *domain.ExpenseParameters) error {
	if e.PreRetirementMonthly.IsNegative() || e.PostRetirementMonthly.IsNegative() {
		return fmt.Errorf("monthly expenses cannot be negative")
	}
	if e.InflationRate.IsNegative() {
		return fmt.Errorf("inflation rate cannot be negative")
	}
	return nil
}
