// Package collision detects overlapping particle pairs and resolves them as
// perfectly elastic collisions along the line of centers.
package collision

import "math"

// Contact identifies one overlapping particle pair, I < J.
type Contact struct {
	I, J int
}

// Detect returns every pair whose separation is at most the sum of the two
// radii. pos holds n*dim coordinates, radii one scalar per particle.
func Detect(pos, radii []float64, dim int) []Contact {
	n := len(radii)
	var contacts []Contact

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r2 := 0.0
			for k := 0; k < dim; k++ {
				d := pos[j*dim+k] - pos[i*dim+k]
				r2 += d * d
			}
			reach := radii[i] + radii[j]
			if r2 <= reach*reach {
				contacts = append(contacts, Contact{I: i, J: j})
			}
		}
	}

	return contacts
}

// Resolve computes the post-collision velocities for all overlapping pairs
// and returns them as a new slice, leaving vel untouched. Every pair is
// evaluated against the same pre-collision velocities and the resulting
// impulses are summed per particle; simultaneous multi-body contact is
// therefore resolved pairwise independently, which is not exact for three or
// more bodies in mutual contact. Positions are never corrected, so
// overlapping particles may stay overlapped.
func Resolve(pos, vel, masses, radii []float64, dim int) ([]float64, int) {
	contacts := Detect(pos, radii, dim)

	out := make([]float64, len(vel))
	copy(out, vel)
	if len(contacts) == 0 {
		return out, 0
	}

	var normal [3]float64
	resolved := 0

	for _, c := range contacts {
		i, j := c.I, c.J

		r2 := 0.0
		for k := 0; k < dim; k++ {
			normal[k] = pos[j*dim+k] - pos[i*dim+k]
			r2 += normal[k] * normal[k]
		}
		if r2 == 0 {
			// Coincident centers leave no collision normal to project onto.
			continue
		}

		rInv := 1.0 / math.Sqrt(r2)
		relNormal := 0.0
		for k := 0; k < dim; k++ {
			normal[k] *= rInv
			relNormal += (vel[i*dim+k] - vel[j*dim+k]) * normal[k]
		}

		// 1-D elastic collision projected onto the normal; tangential
		// components are untouched.
		mi, mj := masses[i], masses[j]
		impulse := 2 * relNormal / (mi + mj)
		for k := 0; k < dim; k++ {
			out[i*dim+k] -= impulse * mj * normal[k]
			out[j*dim+k] += impulse * mi * normal[k]
		}
		resolved++
	}

	return out, resolved
}
