package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"
	"github.com/rgehrsitz/retire/pkg/dateutil"
)

// Distribution selects how annual rates are sampled around their mean.
type Distribution string

const (
	// DistributionNormal samples mean + stddev * z with z standard normal.
	DistributionNormal Distribution = "normal"
	// DistributionLogNormal samples exp(X) - 1 with X normal, parameterized
	// so the rate's mean and standard deviation match the configured values
	// in real space.
	DistributionLogNormal Distribution = "lognormal"
)

// MonteCarloConfig drives a batch run. Zero values fall back to defaults:
// 100 paths, normal sampling, one worker per CPU, and a wall-clock seed.
type MonteCarloConfig struct {
	NumPaths int

	COLAMean     decimal.Decimal
	COLAStdDev   decimal.Decimal
	GrowthMean   decimal.Decimal
	GrowthStdDev decimal.Decimal

	Distribution Distribution

	// Seed pins the random source for reproducible batches. Nil seeds from
	// the clock.
	Seed *int64

	MaxConcurrency int

	// TrackBalance adds the per-month TSP balance percentile table.
	TrackBalance bool
	// KeepRawSeries retains each path's full income series on the result.
	KeepRawSeries bool

	// DepletionThreshold is the balance at or below which a path counts as
	// depleted. Zero means the account must actually empty.
	DepletionThreshold decimal.Decimal
}

// Normalize fills defaulted fields in place.
func (c *MonteCarloConfig) Normalize() {
	if c.NumPaths == 0 {
		c.NumPaths = 100
	}
	if c.Distribution == "" {
		c.Distribution = DistributionNormal
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = runtime.NumCPU()
	}
}

// Validate checks the sampling parameters. Call Normalize first; a zero
// Distribution or NumPaths is rejected here.
func (c *MonteCarloConfig) Validate() error {
	if c.NumPaths < 1 {
		return fmt.Errorf("number of paths must be at least 1, got %d", c.NumPaths)
	}
	if c.COLAStdDev.IsNegative() || c.GrowthStdDev.IsNegative() {
		return fmt.Errorf("standard deviations cannot be negative")
	}
	switch c.Distribution {
	case DistributionNormal, DistributionLogNormal:
	default:
		return fmt.Errorf("unknown distribution %q", c.Distribution)
	}
	return nil
}

// MonteCarloRunner fans a scenario out across sampled rate paths and
// reduces the batch to percentile tables and risk metrics.
type MonteCarloRunner struct {
	sim    *Simulator
	logger Logger
}

// NewMonteCarloRunner wraps a simulator for batch runs.
func NewMonteCarloRunner(sim *Simulator) *MonteCarloRunner {
	return &MonteCarloRunner{sim: sim, logger: NopLogger{}}
}

// SetLogger installs a logger; nil restores the no-op default.
func (r *MonteCarloRunner) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	r.logger = l
}

// Run samples cfg.NumPaths rate paths, projects each one, and reduces the
// surviving results. The scenario is validated once up front; individual
// path failures are collected on the result rather than aborting the batch.
//
// Every random draw happens on the calling goroutine before workers start,
// so a fixed seed reproduces the batch exactly regardless of scheduling.
func (r *MonteCarloRunner) Run(ctx context.Context, params domain.ScenarioParameters, cfg MonteCarloConfig) (*domain.MonteCarloResult, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	// Sampled growth must reach the engine; a fund allocation would
	// override it with the static weighted rate.
	params.FundAllocation = nil

	months := params.MonthCount()
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	colaPaths := make([][]decimal.Decimal, cfg.NumPaths)
	growthPaths := make([][]decimal.Decimal, cfg.NumPaths)
	for i := 0; i < cfg.NumPaths; i++ {
		colaPaths[i] = samplePath(rng, months, cfg.COLAMean, cfg.COLAStdDev, cfg.Distribution)
		growthPaths[i] = samplePath(rng, months, cfg.GrowthMean, cfg.GrowthStdDev, cfg.Distribution)
	}

	r.logger.Debugf("monte carlo: %d paths, %d months, seed %d", cfg.NumPaths, months, seed)

	results := make([]*domain.SimulationResult, cfg.NumPaths)
	pathErrs := make([]error, cfg.NumPaths)

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.MaxConcurrency)
	for i := 0; i < cfg.NumPaths; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if rec := recover(); rec != nil {
					pathErrs[idx] = fmt.Errorf("panic: %v", rec)
				}
			}()

			if err := ctx.Err(); err != nil {
				pathErrs[idx] = err
				return
			}

			pathParams := params
			pathParams.COLA = domain.RatePath(colaPaths[idx])
			pathParams.TSPGrowth = domain.RatePath(growthPaths[idx])
			results[idx] = r.sim.project(pathParams)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.reduce(results, pathErrs, cfg), nil
}

// reduce folds the per-path projections into the batch result.
func (r *MonteCarloRunner) reduce(results []*domain.SimulationResult, pathErrs []error, cfg MonteCarloConfig) *domain.MonteCarloResult {
	out := &domain.MonteCarloResult{Paths: len(results)}

	var ok []*domain.SimulationResult
	for i, res := range results {
		if pathErrs[i] != nil {
			out.Errors = append(out.Errors, domain.PathError{Path: i, Message: pathErrs[i].Error()})
			continue
		}
		if res == nil {
			out.Errors = append(out.Errors, domain.PathError{Path: i, Message: "no result produced"})
			continue
		}
		ok = append(ok, res)
	}
	out.SuccessfulPaths = len(ok)
	if len(ok) == 0 {
		r.logger.Warnf("monte carlo: all %d paths failed", len(results))
		return out
	}

	months := ok[0].Months()
	out.Income = make([]domain.PercentileRow, months)
	if cfg.TrackBalance {
		out.Balance = make([]domain.PercentileRow, months)
	}

	values := make([]decimal.Decimal, len(ok))
	for m := 0; m < months; m++ {
		date := ok[0].Records[m].Date
		for p, res := range ok {
			values[p] = res.Records[m].TotalIncome
		}
		out.Income[m] = percentileRow(date, values)

		if cfg.TrackBalance {
			for p, res := range ok {
				values[p] = res.Records[m].TSPBalance
			}
			out.Balance[m] = percentileRow(date, values)
		}
	}

	out.Metrics = riskMetrics(out.Income, ok, cfg.DepletionThreshold)

	if cfg.KeepRawSeries {
		out.RawIncome = make([][]decimal.Decimal, len(results))
		for i, res := range results {
			if res != nil && pathErrs[i] == nil {
				out.RawIncome[i] = res.TotalIncomeSeries()
			}
		}
	}
	return out
}

// BuildSummarySnapshots assembles the milestone rows shown alongside the
// percentile table: retirement, ten years in, the horizon end, and the
// Social Security claim month when it falls inside the window.
func BuildSummarySnapshots(res *domain.MonteCarloResult, params domain.ScenarioParameters) []domain.SummarySnapshot {
	if len(res.Income) == 0 {
		return nil
	}
	var snaps []domain.SummarySnapshot

	retire := dateutil.FirstOfMonth(params.RetirementDate)
	if s, ok := res.Snapshot("At Retirement", retire); ok {
		snaps = append(snaps, s)
	}
	if s, ok := res.Snapshot("10 Years After Retirement", dateutil.AddMonths(retire, 120)); ok {
		snaps = append(snaps, s)
	}
	if s, ok := res.Snapshot("End of Projection", res.Income[len(res.Income)-1].Date); ok {
		snaps = append(snaps, s)
	}

	claim := dateutil.FirstOfMonth(params.SSClaimDate())
	last := res.Income[len(res.Income)-1].Date
	if !claim.Before(res.Income[0].Date) && !claim.After(last) {
		if s, ok := res.Snapshot("At SS Start", claim); ok {
			snaps = append(snaps, s)
		}
	}
	return snaps
}

// samplePath draws one full annual-rate path. Negative draws are clamped
// to zero: a path never carries a negative COLA or growth rate.
func samplePath(rng *rand.Rand, months int, mean, stddev decimal.Decimal, dist Distribution) []decimal.Decimal {
	meanF := mean.InexactFloat64()
	stdF := stddev.InexactFloat64()

	path := make([]decimal.Decimal, months)
	for m := 0; m < months; m++ {
		var rate float64
		switch dist {
		case DistributionLogNormal:
			// Parameters derived so exp(X)-1 carries the requested mean
			// and standard deviation in real space, not log space.
			meanSq := (1 + meanF) * (1 + meanF)
			sigma2 := math.Log(1 + stdF*stdF/meanSq)
			mu := math.Log(1+meanF) - sigma2/2
			rate = math.Exp(mu+math.Sqrt(sigma2)*boxMuller(rng)) - 1
		default:
			rate = meanF + stdF*boxMuller(rng)
		}
		if rate < 0 {
			rate = 0
		}
		path[m] = decimal.NewFromFloat(rate)
	}
	return path
}

// boxMuller returns a standard normal draw from two uniforms.
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// percentileRow reduces one month's cross-path values to the fixed bands.
func percentileRow(date time.Time, values []decimal.Decimal) domain.PercentileRow {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	return domain.PercentileRow{
		Date: date,
		P5:   percentileOf(sorted, 5),
		P10:  percentileOf(sorted, 10),
		P25:  percentileOf(sorted, 25),
		P50:  percentileOf(sorted, 50),
		P75:  percentileOf(sorted, 75),
		P90:  percentileOf(sorted, 90),
		P95:  percentileOf(sorted, 95),
	}
}

// percentileOf interpolates linearly between the two ranks straddling the
// requested level. values must be sorted ascending.
func percentileOf(values []decimal.Decimal, level float64) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}
	index := level / 100 * float64(n-1)
	lo := int(index)
	if float64(lo) == index || lo+1 >= n {
		return values[lo]
	}
	fraction := decimal.NewFromFloat(index - float64(lo))
	return values[lo].Add(values[lo+1].Sub(values[lo]).Mul(fraction))
}

// riskMetrics derives the batch-level risk summary from the income table
// and the per-path balances.
func riskMetrics(income []domain.PercentileRow, paths []*domain.SimulationResult, depletionThreshold decimal.Decimal) domain.RiskMetrics {
	var m domain.RiskMetrics
	if len(income) == 0 {
		return m
	}

	start := income[0].P50
	m.StartingIncome = start
	m.MinP5Income = income[0].P5

	hundred := decimal.NewFromInt(100)
	eighty := decimal.NewFromFloat(0.80)
	threshold := start.Mul(eighty)

	belowStart, significantDrops := 0, 0
	for _, row := range income {
		if row.P50.LessThan(start) {
			belowStart++
		}
		if row.P25.LessThan(threshold) {
			significantDrops++
		}
		if row.P5.LessThan(m.MinP5Income) {
			m.MinP5Income = row.P5
		}
	}

	monthCount := decimal.NewFromInt(int64(len(income)))
	m.BelowStartProbability = decimal.NewFromInt(int64(belowStart)).Div(monthCount).Mul(hundred)
	m.SignificantDropProbability = decimal.NewFromInt(int64(significantDrops)).Div(monthCount).Mul(hundred)

	if start.IsPositive() {
		m.MaxDrawdownPercent = start.Sub(m.MinP5Income).Div(start).Mul(hundred)
		if m.MaxDrawdownPercent.IsNegative() {
			m.MaxDrawdownPercent = decimal.Zero
		}
	}

	m.Volatility = stddevOf(medianSeries(income))

	depleted := 0
	for _, res := range paths {
		for _, rec := range res.Records {
			if rec.TSPBalance.LessThanOrEqual(depletionThreshold) {
				depleted++
				break
			}
		}
	}
	m.DepletionProbability = decimal.NewFromInt(int64(depleted)).Div(decimal.NewFromInt(int64(len(paths)))).Mul(hundred)

	return m
}

func medianSeries(income []domain.PercentileRow) []decimal.Decimal {
	series := make([]decimal.Decimal, len(income))
	for i, row := range income {
		series[i] = row.P50
	}
	return series
}

// stddevOf is the population standard deviation, computed in float64.
func stddevOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	var sum float64
	for _, v := range values {
		sum += v.InexactFloat64()
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v.InexactFloat64() - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return decimal.NewFromFloat(math.Sqrt(variance))
}
