package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/growthsim/internal/growth"
	"github.com/san-kum/growthsim/internal/metrics"
)

// Outcome is the result of simulating one parameter set. Err holds a
// per-set failure (rejected parameters or a numeric error) without failing
// the sweep. SteadyStateErr is kept apart because a path can exist for
// parameters whose steady state is undefined.
type Outcome struct {
	Index          int
	Params         growth.Params
	Path           growth.Path
	SteadyState    float64
	SteadyStateErr error
	Metrics        map[string]float64
	Err            error
}

// Run simulates every set independently with at most workers goroutines.
// Outcomes are returned in input order. Only context cancellation aborts the
// sweep.
func Run(ctx context.Context, sets []growth.Params, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(sets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range sets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = runOne(i, p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func runOne(idx int, p growth.Params) Outcome {
	out := Outcome{Index: idx, Params: p}

	sim, err := growth.New(p)
	if err != nil {
		out.Err = err
		return out
	}

	out.Path, out.Err = sim.Simulate()
	if out.Err != nil {
		return out
	}

	out.SteadyState, out.SteadyStateErr = sim.SteadyState()
	if out.SteadyStateErr == nil {
		out.Metrics = metrics.Evaluate(out.Path, metrics.Default(out.SteadyState)...)
	} else {
		out.Metrics = metrics.Evaluate(out.Path, metrics.NewGrowthRate(), metrics.NewMonotonic())
	}
	return out
}

// Linspace returns steps copies of base with field set to evenly spaced
// values from min to max inclusive.
func Linspace(base growth.Params, field string, min, max float64, steps int) ([]growth.Params, error) {
	if steps < 1 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if steps == 1 {
		p, err := base.With(field, min)
		if err != nil {
			return nil, err
		}
		return []growth.Params{p}, nil
	}

	step := (max - min) / float64(steps-1)
	sets := make([]growth.Params, 0, steps)
	for i := 0; i < steps; i++ {
		v := min + float64(i)*step
		if field == growth.FieldPeriods {
			v = math.Round(v)
		}
		p, err := base.With(field, v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, p)
	}
	return sets, nil
}

// Best returns the successful outcome with the smallest value of metric.
// ok is false when no outcome reported it.
func Best(outcomes []Outcome, metric string) (best Outcome, ok bool) {
	bestVal := math.Inf(1)
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		v, has := o.Metrics[metric]
		if !has || math.IsNaN(v) {
			continue
		}
		if v < bestVal {
			bestVal = v
			best = o
			ok = true
		}
	}
	return best, ok
}
