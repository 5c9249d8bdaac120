// Package forces evaluates the net pairwise force field acting on a
// particle ensemble. The physics lives in the compute backends; this package
// binds an ensemble and a set of physical constants to one of them.
package forces

import (
	"math"

	"github.com/san-kum/partikle/internal/compute"
	"github.com/san-kum/partikle/internal/particle"
)

// Physical constants in SI units.
const (
	GravitationalConstant = 6.67430e-11
	CoulombConstant       = 8.9875517887e9

	// DefaultSoftening is the default minimum pair separation. Force
	// formulas clamp distances to this floor so coincident particles never
	// produce singular forces.
	DefaultSoftening = 1e-9
)

// Field computes net per-particle forces from gravity and Coulomb
// interaction. The backend is fixed at construction; call sites never choose
// an execution strategy themselves.
type Field struct {
	G         float64
	Coulomb   float64
	Softening float64

	backend compute.Backend
}

type Option func(*Field)

// WithG overrides the gravitational constant.
func WithG(g float64) Option { return func(f *Field) { f.G = g } }

// WithCoulomb overrides the electrostatic constant.
func WithCoulomb(ke float64) Option { return func(f *Field) { f.Coulomb = ke } }

// WithSoftening overrides the minimum pair separation.
func WithSoftening(eps float64) Option { return func(f *Field) { f.Softening = eps } }

// WithBackend pins the field to a specific compute backend instead of the
// process-wide selection.
func WithBackend(b compute.Backend) Option { return func(f *Field) { f.backend = b } }

func New(opts ...Option) *Field {
	f := &Field{
		G:         GravitationalConstant,
		Coulomb:   CoulombConstant,
		Softening: DefaultSoftening,
		backend:   compute.GetBackend(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Backend returns the compute backend the field is bound to.
func (f *Field) Backend() compute.Backend { return f.backend }

// Forces returns the net force on each particle as a flat slice with the
// ensemble's layout.
func (f *Field) Forces(e *particle.Ensemble) []float64 {
	return f.backend.Forces(e.Positions, e.Masses, e.Charges, e.Dim, f.G, f.Coulomb, f.Softening)
}

// PotentialEnergy sums the gravitational and electrostatic pair potentials,
// with the same distance floor the force kernels use.
func (f *Field) PotentialEnergy(e *particle.Ensemble) float64 {
	pe := 0.0
	dim := e.Dim

	for i := 0; i < e.N; i++ {
		for j := i + 1; j < e.N; j++ {
			r2 := 0.0
			for k := 0; k < dim; k++ {
				d := e.Positions[j*dim+k] - e.Positions[i*dim+k]
				r2 += d * d
			}
			r := math.Sqrt(r2)
			if r < f.Softening {
				r = f.Softening
			}
			pe += (-f.G*e.Masses[i]*e.Masses[j] + f.Coulomb*e.Charges[i]*e.Charges[j]) / r
		}
	}

	return pe
}

// Energy returns the total mechanical energy of the ensemble under this
// field.
func (f *Field) Energy(e *particle.Ensemble) float64 {
	return e.KineticEnergy() + f.PotentialEnergy(e)
}
