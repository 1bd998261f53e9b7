package growth

import (
	"fmt"
	"math"
	"sort"
)

const (
	DefaultSavings          = 0.3
	DefaultPopulationGrowth = 0.02
	DefaultDepreciation     = 0.05
	DefaultCapitalShare     = 0.5
	DefaultLabor            = 100.0
	DefaultInitialCapital   = 50.0
	DefaultPeriods          = 100

	// MaxPeriods bounds the path length a single simulation will allocate.
	MaxPeriods = 10_000_000
)

// Field names accepted by Params.With and Params.Fields.
const (
	FieldSavings          = "savings"
	FieldPopulationGrowth = "population_growth"
	FieldDepreciation     = "depreciation"
	FieldCapitalShare     = "capital_share"
	FieldLabor            = "labor"
	FieldInitialCapital   = "initial_capital"
	FieldPeriods          = "periods"
)

// Params are the coefficients of the capital recurrence. A Simulator keeps its
// own copy, so changing a Params value after New has no effect on it.
type Params struct {
	Savings          float64 `yaml:"savings" json:"savings"`
	PopulationGrowth float64 `yaml:"population_growth" json:"population_growth"`
	Depreciation     float64 `yaml:"depreciation" json:"depreciation"`
	CapitalShare     float64 `yaml:"capital_share" json:"capital_share"`
	Labor            float64 `yaml:"labor" json:"labor"`
	InitialCapital   float64 `yaml:"initial_capital" json:"initial_capital"`
	Periods          int     `yaml:"periods" json:"periods"`
}

func DefaultParams() Params {
	return Params{
		Savings:          DefaultSavings,
		PopulationGrowth: DefaultPopulationGrowth,
		Depreciation:     DefaultDepreciation,
		CapitalShare:     DefaultCapitalShare,
		Labor:            DefaultLabor,
		InitialCapital:   DefaultInitialCapital,
		Periods:          DefaultPeriods,
	}
}

// Validate checks the bounds New enforces. Combinations that only break the
// steady-state formula (δ+n ≤ 0, α = 1) are accepted here and rejected by
// SteadyState.
func (p Params) Validate() error {
	fields := p.Fields()
	for _, name := range FieldNames() {
		if v := fields[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return &ParamError{Field: name, Value: v, Reason: "must be finite"}
		}
	}
	switch {
	case p.Savings <= 0 || p.Savings >= 1:
		return &ParamError{Field: FieldSavings, Value: p.Savings, Reason: "must be in (0, 1)"}
	case p.Depreciation < 0:
		return &ParamError{Field: FieldDepreciation, Value: p.Depreciation, Reason: "must be non-negative"}
	case p.CapitalShare <= 0 || p.CapitalShare > 1:
		return &ParamError{Field: FieldCapitalShare, Value: p.CapitalShare, Reason: "must be in (0, 1]"}
	case p.Labor <= 0:
		return &ParamError{Field: FieldLabor, Value: p.Labor, Reason: "must be positive"}
	case p.InitialCapital < 0:
		return &ParamError{Field: FieldInitialCapital, Value: p.InitialCapital, Reason: "must be non-negative"}
	case p.Periods < 0:
		return &ParamError{Field: FieldPeriods, Value: float64(p.Periods), Reason: "must be non-negative"}
	case p.Periods > MaxPeriods:
		return &ParamError{Field: FieldPeriods, Value: float64(p.Periods), Reason: fmt.Sprintf("must be at most %d", MaxPeriods)}
	}
	return nil
}

// Fields returns the parameters keyed by field name.
func (p Params) Fields() map[string]float64 {
	return map[string]float64{
		FieldSavings:          p.Savings,
		FieldPopulationGrowth: p.PopulationGrowth,
		FieldDepreciation:     p.Depreciation,
		FieldCapitalShare:     p.CapitalShare,
		FieldLabor:            p.Labor,
		FieldInitialCapital:   p.InitialCapital,
		FieldPeriods:          float64(p.Periods),
	}
}

// FieldNames lists the names accepted by With, sorted.
func FieldNames() []string {
	names := make([]string, 0, 7)
	for name := range DefaultParams().Fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of p with one field replaced.
func (p Params) With(field string, value float64) (Params, error) {
	switch field {
	case FieldSavings:
		p.Savings = value
	case FieldPopulationGrowth:
		p.PopulationGrowth = value
	case FieldDepreciation:
		p.Depreciation = value
	case FieldCapitalShare:
		p.CapitalShare = value
	case FieldLabor:
		p.Labor = value
	case FieldInitialCapital:
		p.InitialCapital = value
	case FieldPeriods:
		if value != math.Trunc(value) {
			return p, fmt.Errorf("periods must be an integer, got %g", value)
		}
		if value < 0 || value > MaxPeriods {
			return p, &ParamError{Field: FieldPeriods, Value: value, Reason: fmt.Sprintf("must be in [0, %d]", MaxPeriods)}
		}
		p.Periods = int(value)
	default:
		return p, fmt.Errorf("unknown parameter: %s", field)
	}
	return p, nil
}

// EffectiveDepreciation is δ+n, the rate at which capital per worker erodes.
func (p Params) EffectiveDepreciation() float64 {
	return p.Depreciation + p.PopulationGrowth
}
