package metrics

import (
	"math"

	"github.com/san-kum/partikle/internal/particle"
)

// MomentumDrift tracks the maximum component-wise deviation of total
// momentum from its first observation. Pairwise forces and elastic
// collisions both conserve momentum, so a growing value indicates a kernel
// symmetry bug.
type MomentumDrift struct {
	initial  []float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(ens *particle.Ensemble, t float64) {
	p := ens.Momentum()

	if m.samples == 0 {
		m.initial = p
		m.samples++
		return
	}
	m.samples++

	for k := range p {
		m.maxDrift = math.Max(m.maxDrift, math.Abs(p[k]-m.initial[k]))
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = nil
	m.maxDrift = 0
	m.samples = 0
}
