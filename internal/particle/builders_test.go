package particle

import (
	"math"
	"testing"
)

func TestAdd(t *testing.T) {
	e, err := New(validArgs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = e.Add(Particle{
		Position: []float64{0, 5},
		Velocity: []float64{1, 0},
		Mass:     2,
		Charge:   -1e-6,
		Radius:   0.5,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if e.N != 3 {
		t.Errorf("expected N=3, got %d", e.N)
	}
	if len(e.Positions) != 6 || len(e.Masses) != 3 {
		t.Error("backing arrays not extended consistently")
	}
	if e.Positions[5] != 5 || e.Masses[2] != 2 {
		t.Error("added particle data misplaced")
	}
}

func TestAdd_Invalid(t *testing.T) {
	e, _ := New(validArgs())

	if err := e.Add(Particle{Position: []float64{0}, Velocity: []float64{0, 0}, Mass: 1}); err == nil {
		t.Error("expected error for dimension mismatch")
	}
	if err := e.Add(Particle{Position: []float64{0, 0}, Velocity: []float64{0, 0}, Mass: 0}); err == nil {
		t.Error("expected error for zero mass")
	}
	if e.N != 2 {
		t.Errorf("failed Add must not grow the ensemble, N=%d", e.N)
	}
}

func TestLattice(t *testing.T) {
	e, err := Lattice([]int{3, 2}, 1.0, 1e-6, 0.5, 0.25)
	if err != nil {
		t.Fatalf("Lattice failed: %v", err)
	}

	if e.N != 6 {
		t.Errorf("expected 6 particles, got %d", e.N)
	}
	if e.Dim != 2 {
		t.Errorf("expected dim 2, got %d", e.Dim)
	}

	// Neighboring centers sit 2r+spacing apart.
	dx := e.Positions[2] - e.Positions[0]
	if math.Abs(dx-1.0) > 1e-12 {
		t.Errorf("lattice spacing = %f, want 1.0", dx)
	}

	// Charges alternate sign and sum to zero on an even lattice.
	total := 0.0
	for _, q := range e.Charges {
		total += q
	}
	if math.Abs(total) > 1e-18 {
		t.Errorf("lattice net charge = %g, want 0", total)
	}
	if e.Charges[0] == e.Charges[1] {
		t.Error("adjacent lattice charges should alternate")
	}

	for i := range e.Velocities {
		if e.Velocities[i] != 0 {
			t.Fatal("lattice must start at rest")
		}
	}
}

func TestLattice_Invalid(t *testing.T) {
	if _, err := Lattice([]int{3}, 1, 0, 0.5, 0.25); err == nil {
		t.Error("expected error for 1-D shape")
	}
	if _, err := Lattice([]int{3, 0}, 1, 0, 0.5, 0.25); err == nil {
		t.Error("expected error for zero axis count")
	}
}

func TestRandom(t *testing.T) {
	e, err := Random(50, 3, 42, DefaultRandomSpec())
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}

	if e.N != 50 || e.Dim != 3 {
		t.Errorf("got N=%d dim=%d", e.N, e.Dim)
	}
	for i, m := range e.Masses {
		if m <= 0 {
			t.Fatalf("mass[%d] = %g, must be positive", i, m)
		}
	}
	for i, r := range e.Radii {
		if r < 0 {
			t.Fatalf("radius[%d] = %g, must be non-negative", i, r)
		}
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, _ := Random(10, 2, 7, DefaultRandomSpec())
	b, _ := Random(10, 2, 7, DefaultRandomSpec())

	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Fatal("same seed must produce identical ensembles")
		}
	}
}
