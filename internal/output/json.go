package output

import (
	"encoding/json"

	"github.com/rgehrsitz/retire/internal/domain"
)

// JSONProjectionFormatter marshals the full simulation result.
type JSONProjectionFormatter struct {
	Pretty bool
}

func (j JSONProjectionFormatter) Name() string { return "json" }

func (j JSONProjectionFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

// JSONMonteCarloFormatter marshals the batch report, snapshots included.
type JSONMonteCarloFormatter struct {
	Pretty bool
}

func (j JSONMonteCarloFormatter) Name() string { return "json" }

func (j JSONMonteCarloFormatter) Format(report *MonteCarloReport) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
