package particle

import (
	"errors"
	"math"
	"testing"
)

func validArgs() ([][]float64, [][]float64, []float64, []float64, []float64) {
	positions := [][]float64{{-1, 0}, {1, 0}}
	velocities := [][]float64{{0, 0.5}, {0, -0.5}}
	masses := []float64{1, 1}
	charges := []float64{0, 0}
	radii := []float64{0.1, 0.1}
	return positions, velocities, masses, charges, radii
}

func TestNew(t *testing.T) {
	e, err := New(validArgs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if e.N != 2 {
		t.Errorf("expected N=2, got %d", e.N)
	}
	if e.Dim != 2 {
		t.Errorf("expected Dim=2, got %d", e.Dim)
	}
	if e.Positions[0] != -1 || e.Positions[2] != 1 {
		t.Errorf("flat positions wrong: %v", e.Positions)
	}
	if e.Velocities[1] != 0.5 || e.Velocities[3] != -0.5 {
		t.Errorf("flat velocities wrong: %v", e.Velocities)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*[][]float64, *[][]float64, *[]float64, *[]float64, *[]float64)
	}{
		{"velocity length mismatch", func(x, v *[][]float64, m, q, r *[]float64) {
			*v = (*v)[:1]
		}},
		{"mass length mismatch", func(x, v *[][]float64, m, q, r *[]float64) {
			*m = append(*m, 1)
		}},
		{"charge length mismatch", func(x, v *[][]float64, m, q, r *[]float64) {
			*q = (*q)[:1]
		}},
		{"radius length mismatch", func(x, v *[][]float64, m, q, r *[]float64) {
			*r = (*r)[:1]
		}},
		{"zero mass", func(x, v *[][]float64, m, q, r *[]float64) {
			(*m)[0] = 0
		}},
		{"negative mass", func(x, v *[][]float64, m, q, r *[]float64) {
			(*m)[1] = -3
		}},
		{"NaN mass", func(x, v *[][]float64, m, q, r *[]float64) {
			(*m)[0] = math.NaN()
		}},
		{"negative radius", func(x, v *[][]float64, m, q, r *[]float64) {
			(*r)[0] = -0.1
		}},
		{"bad dimension", func(x, v *[][]float64, m, q, r *[]float64) {
			(*x)[0] = []float64{1, 2, 3, 4}
			(*x)[1] = []float64{1, 2, 3, 4}
			(*v)[0] = []float64{1, 2, 3, 4}
			(*v)[1] = []float64{1, 2, 3, 4}
		}},
		{"ragged positions", func(x, v *[][]float64, m, q, r *[]float64) {
			(*x)[1] = []float64{1, 2, 3}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, v, m, q, r := validArgs()
			tt.mutate(&x, &v, &m, &q, &r)
			_, err := New(x, v, m, q, r)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	e, err := New(validArgs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	c := e.Clone()
	e.Positions[0] = 99
	e.Velocities[0] = 99
	e.Masses[0] = 99

	if c.Positions[0] != -1 {
		t.Error("clone positions share storage with original")
	}
	if c.Velocities[0] != 0 {
		t.Error("clone velocities share storage with original")
	}
	if c.Masses[0] != 1 {
		t.Error("clone masses share storage with original")
	}
}

func TestPositionVelocityViews(t *testing.T) {
	e, err := New(validArgs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	p1 := e.Position(1)
	if p1[0] != 1 || p1[1] != 0 {
		t.Errorf("Position(1) = %v, want [1 0]", p1)
	}

	// Views alias ensemble storage.
	p1[0] = 7
	if e.Positions[2] != 7 {
		t.Error("Position view does not alias storage")
	}
}

func TestIsValid(t *testing.T) {
	e, _ := New(validArgs())
	if !e.IsValid() {
		t.Error("fresh ensemble should be valid")
	}

	e.Velocities[0] = math.Inf(1)
	if e.IsValid() {
		t.Error("ensemble with Inf velocity should be invalid")
	}
}

func TestKineticEnergyAndMomentum(t *testing.T) {
	e, _ := New(validArgs())

	ke := e.KineticEnergy()
	if math.Abs(ke-0.25) > 1e-12 {
		t.Errorf("kinetic energy = %f, want 0.25", ke)
	}

	p := e.Momentum()
	if math.Abs(p[0]) > 1e-12 || math.Abs(p[1]) > 1e-12 {
		t.Errorf("momentum = %v, want [0 0]", p)
	}
}
