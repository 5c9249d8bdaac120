package forces

import (
	"math"
	"testing"

	"github.com/san-kum/partikle/internal/compute"
	"github.com/san-kum/partikle/internal/particle"
)

func twoBody(t *testing.T) *particle.Ensemble {
	t.Helper()
	e, err := particle.New(
		[][]float64{{-1, 0}, {1, 0}},
		[][]float64{{0, 0.5}, {0, -0.5}},
		[]float64{1, 1},
		[]float64{0, 0},
		[]float64{0.1, 0.1},
	)
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	return e
}

func TestFieldDefaults(t *testing.T) {
	f := New()

	if f.G != GravitationalConstant {
		t.Errorf("G = %g, want %g", f.G, GravitationalConstant)
	}
	if f.Coulomb != CoulombConstant {
		t.Errorf("Coulomb = %g, want %g", f.Coulomb, CoulombConstant)
	}
	if f.Softening <= 0 {
		t.Error("softening must be positive")
	}
	if f.Backend() == nil {
		t.Error("field must bind a backend at construction")
	}
}

func TestFieldOptions(t *testing.T) {
	b := compute.NewCPUBackend()
	f := New(WithG(1), WithCoulomb(0), WithSoftening(1e-3), WithBackend(b))

	if f.G != 1 || f.Coulomb != 0 || f.Softening != 1e-3 {
		t.Errorf("options not applied: %+v", f)
	}
	if f.Backend() != b {
		t.Error("WithBackend not applied")
	}
}

func TestForces_ThirdLawSymmetry(t *testing.T) {
	f := New(WithG(1), WithCoulomb(1))
	e := twoBody(t)
	e.Charges[0] = 0.3
	e.Charges[1] = -0.2

	forces := f.Forces(e)
	for k := 0; k < e.Dim; k++ {
		if forces[k] != -forces[e.Dim+k] {
			t.Errorf("component %d: F01=%g F10=%g", k, forces[k], forces[e.Dim+k])
		}
	}
}

func TestForces_SingleParticle(t *testing.T) {
	e, err := particle.New(
		[][]float64{{3, 4, 5}},
		[][]float64{{0, 0, 0}},
		[]float64{2}, []float64{1}, []float64{1},
	)
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}

	forces := New().Forces(e)
	for i, v := range forces {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("forces[%d] = %g, want 0 with no partners", i, v)
		}
	}
}

func TestEnergy_TwoBody(t *testing.T) {
	f := New(WithG(1), WithCoulomb(0))
	e := twoBody(t)

	// KE = 2 * (1/2 * 1 * 0.25); PE = -1*1*1/2.
	want := 0.25 - 0.5
	got := f.Energy(e)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("energy = %g, want %g", got, want)
	}
}

func TestPotentialEnergy_DistanceFloor(t *testing.T) {
	e, err := particle.New(
		[][]float64{{0, 0}, {0, 0}},
		[][]float64{{0, 0}, {0, 0}},
		[]float64{1, 1}, []float64{0, 0}, []float64{0, 0},
	)
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}

	f := New(WithG(1), WithCoulomb(0), WithSoftening(0.5))
	pe := f.PotentialEnergy(e)
	if math.IsInf(pe, 0) || math.IsNaN(pe) {
		t.Fatalf("potential at zero separation = %g, floor not applied", pe)
	}
	if math.Abs(pe-(-2.0)) > 1e-12 {
		t.Errorf("potential = %g, want -2 at clamped separation 0.5", pe)
	}
}
