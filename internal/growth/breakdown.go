package growth

import "math"

// Flow splits one period of the recurrence into its terms.
type Flow struct {
	Period     int     `json:"period"`
	Capital    float64 `json:"capital"`
	Output     float64 `json:"output"`
	Investment float64 `json:"investment"`
	BreakEven  float64 `json:"break_even"`
}

// Net is the capital change the recurrence applies after this period.
func (f Flow) Net() float64 {
	return f.Investment - f.BreakEven
}

// Breakdown decomposes each element of path into output L·K^α, investment
// s·L·K^α and break-even investment (δ+n)·K.
func (s *Simulator) Breakdown(path Path) []Flow {
	p := s.params
	flows := make([]Flow, len(path))
	for t, k := range path {
		y := p.Labor * math.Pow(k, p.CapitalShare)
		flows[t] = Flow{
			Period:     t,
			Capital:    k,
			Output:     y,
			Investment: p.Savings * y,
			BreakEven:  p.EffectiveDepreciation() * k,
		}
	}
	return flows
}

// Gap returns |K_t − K*| for every element of path.
func (s *Simulator) Gap(path Path) ([]float64, error) {
	kstar, err := s.SteadyState()
	if err != nil {
		return nil, err
	}
	gaps := make([]float64, len(path))
	for t, k := range path {
		gaps[t] = math.Abs(k - kstar)
	}
	return gaps, nil
}
