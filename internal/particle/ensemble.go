package particle

import (
	"fmt"
	"math"
)

// ValidationError reports malformed or inconsistent construction arrays.
// A simulation is never started from an ensemble that failed validation.
type ValidationError struct {
	Field   string
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("particle: invalid %s[%d]: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("particle: invalid %s: %s", e.Field, e.Message)
}

// Ensemble holds the full state of N particles at one instant as flat
// struct-of-arrays storage. Particle i's position occupies
// Positions[i*Dim : (i+1)*Dim], and likewise for Velocities. The flat layout
// is what the compute backends operate on directly.
type Ensemble struct {
	N   int
	Dim int

	Positions  []float64
	Velocities []float64
	Masses     []float64
	Charges    []float64
	Radii      []float64
}

// New validates the five construction arrays and builds an Ensemble.
// positions and velocities are (N,p) with p either 2 or 3; masses, charges
// and radii are length N. Masses must be strictly positive and radii
// non-negative.
func New(positions, velocities [][]float64, masses, charges, radii []float64) (*Ensemble, error) {
	n := len(positions)
	if n == 0 {
		return nil, &ValidationError{Field: "positions", Index: -1, Message: "empty"}
	}
	if len(velocities) != n {
		return nil, &ValidationError{Field: "velocities", Index: -1,
			Message: fmt.Sprintf("length %d, want %d", len(velocities), n)}
	}
	if len(masses) != n {
		return nil, &ValidationError{Field: "masses", Index: -1,
			Message: fmt.Sprintf("length %d, want %d", len(masses), n)}
	}
	if len(charges) != n {
		return nil, &ValidationError{Field: "charges", Index: -1,
			Message: fmt.Sprintf("length %d, want %d", len(charges), n)}
	}
	if len(radii) != n {
		return nil, &ValidationError{Field: "radii", Index: -1,
			Message: fmt.Sprintf("length %d, want %d", len(radii), n)}
	}

	dim := len(positions[0])
	if dim != 2 && dim != 3 {
		return nil, &ValidationError{Field: "positions", Index: 0,
			Message: fmt.Sprintf("dimension %d, want 2 or 3", dim)}
	}

	e := &Ensemble{
		N:          n,
		Dim:        dim,
		Positions:  make([]float64, n*dim),
		Velocities: make([]float64, n*dim),
		Masses:     make([]float64, n),
		Charges:    make([]float64, n),
		Radii:      make([]float64, n),
	}

	for i := 0; i < n; i++ {
		if len(positions[i]) != dim {
			return nil, &ValidationError{Field: "positions", Index: i,
				Message: fmt.Sprintf("dimension %d, want %d", len(positions[i]), dim)}
		}
		if len(velocities[i]) != dim {
			return nil, &ValidationError{Field: "velocities", Index: i,
				Message: fmt.Sprintf("dimension %d, want %d", len(velocities[i]), dim)}
		}
		if masses[i] <= 0 || math.IsNaN(masses[i]) || math.IsInf(masses[i], 0) {
			return nil, &ValidationError{Field: "masses", Index: i,
				Message: fmt.Sprintf("must be positive, got %g", masses[i])}
		}
		if radii[i] < 0 || math.IsNaN(radii[i]) {
			return nil, &ValidationError{Field: "radii", Index: i,
				Message: fmt.Sprintf("must be non-negative, got %g", radii[i])}
		}

		copy(e.Positions[i*dim:(i+1)*dim], positions[i])
		copy(e.Velocities[i*dim:(i+1)*dim], velocities[i])
	}

	copy(e.Masses, masses)
	copy(e.Charges, charges)
	copy(e.Radii, radii)

	return e, nil
}

// Clone returns a deep copy. Recorded trajectory snapshots are clones, so
// later in-place mutation of the live ensemble never alters history.
func (e *Ensemble) Clone() *Ensemble {
	c := &Ensemble{
		N:          e.N,
		Dim:        e.Dim,
		Positions:  make([]float64, len(e.Positions)),
		Velocities: make([]float64, len(e.Velocities)),
		Masses:     make([]float64, len(e.Masses)),
		Charges:    make([]float64, len(e.Charges)),
		Radii:      make([]float64, len(e.Radii)),
	}
	copy(c.Positions, e.Positions)
	copy(c.Velocities, e.Velocities)
	copy(c.Masses, e.Masses)
	copy(c.Charges, e.Charges)
	copy(c.Radii, e.Radii)
	return c
}

// Position returns a view into particle i's position. The slice aliases the
// ensemble's storage.
func (e *Ensemble) Position(i int) []float64 {
	return e.Positions[i*e.Dim : (i+1)*e.Dim]
}

// Velocity returns a view into particle i's velocity.
func (e *Ensemble) Velocity(i int) []float64 {
	return e.Velocities[i*e.Dim : (i+1)*e.Dim]
}

// IsValid reports whether the ensemble contains no NaN or Inf values.
func (e *Ensemble) IsValid() bool {
	for _, s := range [][]float64{e.Positions, e.Velocities, e.Masses, e.Charges, e.Radii} {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// KineticEnergy returns sum over particles of m v^2 / 2.
func (e *Ensemble) KineticEnergy() float64 {
	ke := 0.0
	for i := 0; i < e.N; i++ {
		v2 := 0.0
		for k := 0; k < e.Dim; k++ {
			vk := e.Velocities[i*e.Dim+k]
			v2 += vk * vk
		}
		ke += 0.5 * e.Masses[i] * v2
	}
	return ke
}

// Momentum returns the total momentum vector, one component per dimension.
func (e *Ensemble) Momentum() []float64 {
	p := make([]float64, e.Dim)
	for i := 0; i < e.N; i++ {
		for k := 0; k < e.Dim; k++ {
			p[k] += e.Masses[i] * e.Velocities[i*e.Dim+k]
		}
	}
	return p
}
