package growth

import "math"

// Path is a capital trajectory. Index 0 is the initial capital and index t the
// capital after t periods.
type Path []float64

// Final returns the last capital value, or 0 for an empty path.
func (p Path) Final() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// Periods is the number of transitions recorded in the path.
func (p Path) Periods() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

type Simulator struct {
	params Params
}

func New(p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{params: p}, nil
}

// Params returns a copy of the simulator's parameters.
func (s *Simulator) Params() Params {
	return s.params
}

// SteadyState returns K* = ((s·L)/(δ+n))^(1/(1-α)).
func (s *Simulator) SteadyState() (float64, error) {
	p := s.params
	eff := p.EffectiveDepreciation()
	if eff <= 0 {
		return 0, &DomainError{Reason: "depreciation plus population growth must be positive"}
	}
	if p.CapitalShare == 1 {
		return 0, &DomainError{Reason: "capital share must be below 1"}
	}

	kstar := math.Pow(p.Savings*p.Labor/eff, 1/(1-p.CapitalShare))
	if math.IsNaN(kstar) || math.IsInf(kstar, 0) {
		return 0, &DomainError{Reason: "steady state is not finite"}
	}
	return kstar, nil
}

// Step advances capital by one period: k + s·L·k^α − (δ+n)·k. The result is
// neither clamped nor rounded.
func (s *Simulator) Step(k float64) (float64, error) {
	next, err := s.step(k)
	if err != nil {
		err.Period = -1
		return 0, err
	}
	return next, nil
}

func (s *Simulator) step(k float64) (float64, *NumericError) {
	p := s.params
	if k < 0 && p.CapitalShare != math.Trunc(p.CapitalShare) {
		return 0, &NumericError{Capital: k, Reason: "negative capital raised to a fractional power"}
	}

	next := k + p.Savings*p.Labor*math.Pow(k, p.CapitalShare) - p.EffectiveDepreciation()*k
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0, &NumericError{Capital: k, Reason: "update produced a non-finite value"}
	}
	return next, nil
}

// Simulate runs exactly Periods transitions from InitialCapital and returns
// the full path. It never stops early, even once the path has settled. A
// failed step aborts the run and no partial path is returned.
func (s *Simulator) Simulate() (Path, error) {
	path := make(Path, s.params.Periods+1)
	path[0] = s.params.InitialCapital

	for t := 0; t < s.params.Periods; t++ {
		next, err := s.step(path[t])
		if err != nil {
			err.Period = t
			return nil, err
		}
		path[t+1] = next
	}

	return path, nil
}
