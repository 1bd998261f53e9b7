package metrics

import (
	"math"

	"github.com/san-kum/growthsim/internal/growth"
)

// Metric accumulates a summary over a capital path one observation at a time.
type Metric interface {
	Name() string
	Observe(period int, capital float64)
	Value() float64
	Reset()
}

// Default returns the standard metric set for a path whose steady state is kstar.
func Default(kstar float64) []Metric {
	return []Metric{
		NewFinalGap(kstar),
		NewHalfLife(kstar),
		NewGrowthRate(),
		NewMonotonic(),
	}
}

// Evaluate resets each metric, feeds it the whole path and returns the values
// keyed by name.
func Evaluate(path growth.Path, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
	}
	for t, k := range path {
		for _, m := range ms {
			m.Observe(t, k)
		}
	}
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// FinalGap is |K_T − K*| / K* for the last observed capital.
type FinalGap struct {
	kstar float64
	last  float64
	seen  bool
}

func NewFinalGap(kstar float64) *FinalGap {
	return &FinalGap{kstar: kstar}
}

func (g *FinalGap) Name() string { return "final_gap" }

func (g *FinalGap) Observe(period int, capital float64) {
	g.last = capital
	g.seen = true
}

func (g *FinalGap) Value() float64 {
	if !g.seen || g.kstar == 0 {
		return 0
	}
	return math.Abs(g.last-g.kstar) / g.kstar
}

func (g *FinalGap) Reset() {
	g.last = 0
	g.seen = false
}

// HalfLife is the first period at which the distance to K* has halved
// relative to the first observation, or -1 if it never does.
type HalfLife struct {
	kstar   float64
	initial float64
	period  int
	seen    bool
}

func NewHalfLife(kstar float64) *HalfLife {
	return &HalfLife{kstar: kstar, period: -1}
}

func (h *HalfLife) Name() string { return "half_life" }

func (h *HalfLife) Observe(period int, capital float64) {
	gap := math.Abs(capital - h.kstar)
	if !h.seen {
		h.initial = gap
		h.seen = true
		if gap == 0 {
			h.period = period
		}
		return
	}
	if h.period < 0 && gap <= h.initial/2 {
		h.period = period
	}
}

func (h *HalfLife) Value() float64 {
	return float64(h.period)
}

func (h *HalfLife) Reset() {
	h.initial = 0
	h.period = -1
	h.seen = false
}
