package compare

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/retire/internal/calculation"
	"github.com/rgehrsitz/retire/internal/domain"
)

// CompareEngine orchestrates A/B scenario comparison: both simulations run
// concurrently, then the cumulative curves are analyzed for a breakeven and
// optionally combined into a household view.
type CompareEngine struct {
	sim     *calculation.Simulator
	metrics *MetricsCalculator
}

// NewCompareEngine creates a comparison engine around a simulator.
func NewCompareEngine(sim *calculation.Simulator) *CompareEngine {
	return &CompareEngine{
		sim:     sim,
		metrics: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior.
type CompareOptions struct {
	// IncludeHousehold adds the combined two-person income series.
	IncludeHousehold bool
	// Expenses enables the cash-flow overlay. It applies to the household
	// series when one is built, otherwise to scenario A.
	Expenses *domain.ExpenseParameters
}

// Compare runs both scenarios and assembles the comparison. Validation
// failures surface per scenario so the caller knows which input is broken.
func (ce *CompareEngine) Compare(ctx context.Context, a, b domain.ScenarioParameters, options CompareOptions) (*Comparison, error) {
	var resA, resB *domain.SimulationResult

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := ce.sim.Project(a)
		if err != nil {
			return fmt.Errorf("scenario A (%s): %w", a.Name, err)
		}
		resA = res
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := ce.sim.Project(b)
		if err != nil {
			return fmt.Errorf("scenario B (%s): %w", b.Name, err)
		}
		resB = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		A:         ce.metrics.CalculateMetrics(resA),
		B:         ce.metrics.CalculateMetrics(resB),
		Breakeven: FindBreakeven(resA, resB),
		ResultA:   resA,
		ResultB:   resB,
	}
	ce.metrics.CalculateDiffs(cmp)

	if options.IncludeHousehold {
		cmp.Household = CombineHousehold(resA, resB)
	}

	if options.Expenses != nil {
		series := resA
		if cmp.Household != nil {
			series = cmp.Household
		}
		cmp.CashFlow = BuildCashFlow(series, a.RetirementDate, *options.Expenses)
	}

	return cmp, nil
}
