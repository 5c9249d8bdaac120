// Package metrics provides run metrics observed over trajectory snapshots.
package metrics

import (
	"math"

	"github.com/san-kum/partikle/internal/forces"
	"github.com/san-kum/partikle/internal/particle"
)

// EnergyDrift tracks the maximum relative deviation of total mechanical
// energy from its first observation. For a velocity-Verlet run without
// collisions the value should stay small; growth signals an integration
// problem or too large a timestep.
type EnergyDrift struct {
	field *forces.Field

	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(field *forces.Field) *EnergyDrift {
	return &EnergyDrift{field: field}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(ens *particle.Ensemble, t float64) {
	energy := e.field.Energy(ens)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
