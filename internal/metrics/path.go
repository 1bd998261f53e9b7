package metrics

// GrowthRate is the mean of K_{t+1}/K_t − 1 over transitions from non-zero capital.
type GrowthRate struct {
	prev    float64
	seen    bool
	sum     float64
	samples int
}

func NewGrowthRate() *GrowthRate {
	return &GrowthRate{}
}

func (g *GrowthRate) Name() string { return "growth_rate" }

func (g *GrowthRate) Observe(period int, capital float64) {
	if g.seen && g.prev != 0 {
		g.sum += capital/g.prev - 1
		g.samples++
	}
	g.prev = capital
	g.seen = true
}

func (g *GrowthRate) Value() float64 {
	if g.samples == 0 {
		return 0
	}
	return g.sum / float64(g.samples)
}

func (g *GrowthRate) Reset() {
	g.prev = 0
	g.seen = false
	g.sum = 0
	g.samples = 0
}

// Monotonic is 1 while the path never changes direction, 0 once it does.
// Flat transitions do not count as a direction.
type Monotonic struct {
	prev      float64
	seen      bool
	direction int
	broken    bool
}

func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

func (m *Monotonic) Name() string { return "monotonic" }

func (m *Monotonic) Observe(period int, capital float64) {
	if m.seen && !m.broken {
		d := 0
		switch {
		case capital > m.prev:
			d = 1
		case capital < m.prev:
			d = -1
		}
		if d != 0 {
			if m.direction != 0 && d != m.direction {
				m.broken = true
			}
			m.direction = d
		}
	}
	m.prev = capital
	m.seen = true
}

func (m *Monotonic) Value() float64 {
	if m.broken {
		return 0
	}
	return 1
}

func (m *Monotonic) Reset() {
	m.prev = 0
	m.seen = false
	m.direction = 0
	m.broken = false
}
