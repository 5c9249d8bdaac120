package particle

import (
	"math"
	"math/rand"
)

// Particle is a single particle used to assemble an ensemble incrementally.
type Particle struct {
	Position []float64
	Velocity []float64
	Mass     float64
	Charge   float64
	Radius   float64
}

// Add appends p to the ensemble. Adding is only meaningful while the
// ensemble is still being assembled; once a driver owns it, N is fixed.
func (e *Ensemble) Add(p Particle) error {
	if len(p.Position) != e.Dim {
		return &ValidationError{Field: "position", Index: e.N,
			Message: "dimension mismatch"}
	}
	if len(p.Velocity) != e.Dim {
		return &ValidationError{Field: "velocity", Index: e.N,
			Message: "dimension mismatch"}
	}
	if p.Mass <= 0 {
		return &ValidationError{Field: "mass", Index: e.N,
			Message: "must be positive"}
	}
	if p.Radius < 0 {
		return &ValidationError{Field: "radius", Index: e.N,
			Message: "must be non-negative"}
	}

	e.Positions = append(e.Positions, p.Position...)
	e.Velocities = append(e.Velocities, p.Velocity...)
	e.Masses = append(e.Masses, p.Mass)
	e.Charges = append(e.Charges, p.Charge)
	e.Radii = append(e.Radii, p.Radius)
	e.N++
	return nil
}

// Lattice builds a resting cubic lattice of particles with alternating
// charge sign. shape gives the particle count along each axis (length 2 or
// 3), spacing the gap between particle surfaces, so neighboring centers sit
// 2*radius+spacing apart.
func Lattice(shape []int, mass, absCharge, spacing, radius float64) (*Ensemble, error) {
	dim := len(shape)
	if dim != 2 && dim != 3 {
		return nil, &ValidationError{Field: "shape", Index: -1,
			Message: "length must be 2 or 3"}
	}
	n := 1
	for i, s := range shape {
		if s < 1 {
			return nil, &ValidationError{Field: "shape", Index: i,
				Message: "axis count must be at least 1"}
		}
		n *= s
	}

	step := 2*radius + spacing
	positions := make([][]float64, 0, n)
	velocities := make([][]float64, 0, n)
	charges := make([]float64, 0, n)
	masses := make([]float64, 0, n)
	radii := make([]float64, 0, n)

	idx := make([]int, dim)
	for {
		pos := make([]float64, dim)
		parity := 0
		for k := 0; k < dim; k++ {
			pos[k] = float64(idx[k]) * step
			parity += idx[k]
		}
		q := absCharge
		if parity%2 == 1 {
			q = -absCharge
		}
		positions = append(positions, pos)
		velocities = append(velocities, make([]float64, dim))
		charges = append(charges, q)
		masses = append(masses, mass)
		radii = append(radii, radius)

		// Odometer increment over the lattice indices.
		k := 0
		for k < dim {
			idx[k]++
			if idx[k] < shape[k] {
				break
			}
			idx[k] = 0
			k++
		}
		if k == dim {
			break
		}
	}

	return New(positions, velocities, masses, charges, radii)
}

// RandomSpec parameterizes Random as mean/stddev pairs per quantity.
type RandomSpec struct {
	Position [2]float64
	Velocity [2]float64
	Mass     [2]float64
	Charge   [2]float64
	Radius   [2]float64
}

// DefaultRandomSpec mirrors the scales of a loosely bound charged cloud.
func DefaultRandomSpec() RandomSpec {
	return RandomSpec{
		Position: [2]float64{0, 100},
		Velocity: [2]float64{0, 100},
		Mass:     [2]float64{1e7, 1e5},
		Charge:   [2]float64{0, 1e-5},
		Radius:   [2]float64{1, 0.1},
	}
}

// Random builds an ensemble of n particles with normally distributed state.
// Sampled masses and radii are folded positive; exact zeros are replaced
// with 1 so validation holds.
func Random(n, dim int, seed int64, spec RandomSpec) (*Ensemble, error) {
	if n < 1 {
		return nil, &ValidationError{Field: "n", Index: -1, Message: "must be at least 1"}
	}
	rng := rand.New(rand.NewSource(seed))

	positions := make([][]float64, n)
	velocities := make([][]float64, n)
	masses := make([]float64, n)
	charges := make([]float64, n)
	radii := make([]float64, n)

	for i := 0; i < n; i++ {
		positions[i] = make([]float64, dim)
		velocities[i] = make([]float64, dim)
		for k := 0; k < dim; k++ {
			positions[i][k] = spec.Position[0] + rng.NormFloat64()*spec.Position[1]
			velocities[i][k] = spec.Velocity[0] + rng.NormFloat64()*spec.Velocity[1]
		}
		masses[i] = math.Abs(spec.Mass[0] + rng.NormFloat64()*spec.Mass[1])
		if masses[i] == 0 {
			masses[i] = 1
		}
		charges[i] = spec.Charge[0] + rng.NormFloat64()*spec.Charge[1]
		radii[i] = math.Abs(spec.Radius[0] + rng.NormFloat64()*spec.Radius[1])
		if radii[i] == 0 {
			radii[i] = 1
		}
	}

	return New(positions, velocities, masses, charges, radii)
}
