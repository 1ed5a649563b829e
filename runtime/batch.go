package runtime

import (
	"context"
	goruntime "runtime"

	"golang.org/x/sync/errgroup"

	"github.com/panyam/fermi/core"
	"github.com/panyam/fermi/decl"
)

// Scenario is one formula with its bindings, run as part of a batch.
type Scenario struct {
	Name     string
	Expr     decl.Expr
	Bindings *core.Bindings
	Samples  int
	// Bins overrides the histogram bin count when positive.
	Bins int
	// Seed, when non-zero, replaces the batch-derived seed for this scenario.
	Seed uint64
}

func (sc Scenario) seedFor(batchSeed uint64, i int) uint64 {
	if sc.Seed != 0 {
		return sc.Seed
	}
	return batchSeed + uint64(i)
}

// ScenarioResult pairs a scenario with its outcome. Err is set when that
// scenario alone failed, e.g. with ErrNoValidSamples.
type ScenarioResult struct {
	Name   string
	Seed   uint64
	Result *SimulationResult
	Err    error
}

// SimulateAll runs scenarios concurrently. Scenario i draws from its own
// generator seeded with seed+i (or its own Seed), so a batch is reproducible
// regardless of scheduling. Only cancellation of ctx fails the whole batch; per-scenario
// failures are reported in the results, which keep the input order.
// Any WithSource/WithSeed in opts is overridden.
func SimulateAll(ctx context.Context, seed uint64, scenarios []Scenario, opts ...Option) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(goruntime.NumCPU())

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n := sc.Samples
			if n <= 0 {
				n = DefaultSamples
			}
			runOpts := append(append([]Option{}, opts...), WithSeed(sc.seedFor(seed, i)), WithBins(sc.Bins))
			res, err := Simulate(sc.Expr, sc.Bindings, n, runOpts...)
			results[i] = ScenarioResult{Name: sc.Name, Seed: sc.seedFor(seed, i), Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
