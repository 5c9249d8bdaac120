package collision_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partikle/internal/collision"
)

var _ = Describe("Detect", func() {
	It("finds pairs whose separation is within the radius sum", func() {
		pos := []float64{0, 0, 1, 0, 10, 0}
		radii := []float64{0.6, 0.6, 0.6}

		contacts := collision.Detect(pos, radii, 2)
		Expect(contacts).To(HaveLen(1))
		Expect(contacts[0]).To(Equal(collision.Contact{I: 0, J: 1}))
	})

	It("treats exact touching as contact", func() {
		pos := []float64{0, 0, 2, 0}
		radii := []float64{1, 1}

		Expect(collision.Detect(pos, radii, 2)).To(HaveLen(1))
	})

	It("finds nothing for a single particle", func() {
		Expect(collision.Detect([]float64{0, 0}, []float64{5}, 2)).To(BeEmpty())
	})
})

var _ = Describe("Resolve", func() {
	It("swaps velocities for an equal-mass head-on collision", func() {
		pos := []float64{-0.05, 0, 0.05, 0}
		vel := []float64{1, 0, -1, 0}
		masses := []float64{1, 1}
		radii := []float64{0.1, 0.1}

		out, n := collision.Resolve(pos, vel, masses, radii, 2)
		Expect(n).To(Equal(1))
		Expect(out[0]).To(BeNumerically("~", -1, 1e-12))
		Expect(out[2]).To(BeNumerically("~", 1, 1e-12))
		Expect(out[1]).To(BeZero())
		Expect(out[3]).To(BeZero())
	})

	It("leaves the tangential velocity component unchanged", func() {
		pos := []float64{-0.05, 0, 0.05, 0}
		vel := []float64{1, 3, -1, -4}
		masses := []float64{1, 1}
		radii := []float64{0.1, 0.1}

		out, _ := collision.Resolve(pos, vel, masses, radii, 2)
		Expect(out[1]).To(Equal(3.0))
		Expect(out[3]).To(Equal(-4.0))
	})

	It("conserves momentum and kinetic energy", func() {
		pos := []float64{0, 0, 0.5, 0.3}
		vel := []float64{2, -1, -0.5, 0.7}
		masses := []float64{3, 1.5}
		radii := []float64{0.4, 0.4}

		out, n := collision.Resolve(pos, vel, masses, radii, 2)
		Expect(n).To(Equal(1))

		momentum := func(v []float64) (px, py float64) {
			return masses[0]*v[0] + masses[1]*v[2], masses[0]*v[1] + masses[1]*v[3]
		}
		energy := func(v []float64) float64 {
			return 0.5*masses[0]*(v[0]*v[0]+v[1]*v[1]) + 0.5*masses[1]*(v[2]*v[2]+v[3]*v[3])
		}

		px0, py0 := momentum(vel)
		px1, py1 := momentum(out)
		Expect(px1).To(BeNumerically("~", px0, 1e-12))
		Expect(py1).To(BeNumerically("~", py0, 1e-12))
		Expect(energy(out)).To(BeNumerically("~", energy(vel), 1e-12))
	})

	It("does not modify the input velocities", func() {
		pos := []float64{-0.05, 0, 0.05, 0}
		vel := []float64{1, 0, -1, 0}

		_, _ = collision.Resolve(pos, vel, []float64{1, 1}, []float64{0.1, 0.1}, 2)
		Expect(vel).To(Equal([]float64{1, 0, -1, 0}))
	})

	It("resolves simultaneous pairs from pre-collision velocities", func() {
		// Three particles in a row, both outer ones overlapping the middle.
		pos := []float64{-0.1, 0, 0, 0, 0.1, 0}
		vel := []float64{1, 0, 0, 0, -1, 0}
		masses := []float64{1, 1, 1}
		radii := []float64{0.06, 0.06, 0.06}

		out, n := collision.Resolve(pos, vel, masses, radii, 2)
		Expect(n).To(Equal(2))

		// Each pair swaps against the middle particle's pre-collision rest
		// velocity; the middle particle's impulses cancel.
		Expect(out[0]).To(BeNumerically("~", 0, 1e-12))
		Expect(out[2]).To(BeNumerically("~", 0, 1e-12))
		Expect(out[4]).To(BeNumerically("~", 0, 1e-12))
	})

	It("skips coincident centers without producing NaN", func() {
		pos := []float64{1, 1, 1, 1}
		vel := []float64{1, 0, -1, 0}

		out, n := collision.Resolve(pos, vel, []float64{1, 1}, []float64{0.5, 0.5}, 2)
		Expect(n).To(BeZero())
		for _, v := range out {
			Expect(math.IsNaN(v)).To(BeFalse())
		}
		Expect(out).To(Equal(vel))
	})

	It("handles 3-D collisions along the line of centers", func() {
		pos := []float64{0, 0, 0, 0.1, 0, 0}
		vel := []float64{1, 0, 0, -1, 0, 0}
		masses := []float64{1, 1}
		radii := []float64{0.1, 0.1}

		out, n := collision.Resolve(pos, vel, masses, radii, 3)
		Expect(n).To(Equal(1))
		Expect(out[0]).To(BeNumerically("~", -1, 1e-12))
		Expect(out[3]).To(BeNumerically("~", 1, 1e-12))
	})
})
