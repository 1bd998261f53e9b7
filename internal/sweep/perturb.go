package sweep

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/growthsim/internal/growth"
)

// Perturb returns trials copies of base with field drawn uniformly from
// value ± spread. The same seed always yields the same sets.
func Perturb(base growth.Params, field string, spread float64, trials int, seed int64) ([]growth.Params, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}
	if spread < 0 {
		return nil, fmt.Errorf("spread must be non-negative, got %g", spread)
	}
	center, ok := base.Fields()[field]
	if !ok {
		return nil, fmt.Errorf("unknown parameter: %s", field)
	}
	if field == growth.FieldPeriods {
		return nil, fmt.Errorf("cannot perturb %s", field)
	}

	rng := rand.New(rand.NewSource(seed))
	sets := make([]growth.Params, trials)
	for i := range sets {
		v := center + (rng.Float64()-0.5)*2*spread
		p, err := base.With(field, v)
		if err != nil {
			return nil, err
		}
		sets[i] = p
	}
	return sets, nil
}
