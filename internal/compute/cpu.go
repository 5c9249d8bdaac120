package compute

import (
	"math"
	"runtime"
	"sync"
)

// Below this particle count the parallel path costs more than it saves.
const parallelThreshold = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Forces(pos, masses, charges []float64, dim int, g, ke, eps float64) []float64 {
	n := len(masses)
	forces := make([]float64, n*dim)

	if n < parallelThreshold || c.workers < 2 {
		pairForcesSerial(pos, masses, charges, dim, g, ke, eps, forces)
		return forces
	}

	c.pairForcesParallel(pos, masses, charges, dim, g, ke, eps, forces)
	return forces
}

// pairForcesSerial is the reference kernel: a symmetric half-loop applying
// each pair force to both particles with opposite sign. Combined pair
// coefficient on i from j is (G m_i m_j - ke q_i q_j) / r^3, pointing from
// i toward j, with r clamped to eps.
func pairForcesSerial(pos, masses, charges []float64, dim int, g, ke, eps float64, forces []float64) {
	n := len(masses)
	var d [3]float64

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r2 := 0.0
			for k := 0; k < dim; k++ {
				d[k] = pos[j*dim+k] - pos[i*dim+k]
				r2 += d[k] * d[k]
			}

			r := math.Sqrt(r2)
			if r < eps {
				r = eps
			}
			r3Inv := 1.0 / (r * r * r)

			coef := (g*masses[i]*masses[j] - ke*charges[i]*charges[j]) * r3Inv
			for k := 0; k < dim; k++ {
				f := coef * d[k]
				forces[i*dim+k] += f
				forces[j*dim+k] -= f
			}
		}
	}
}

// pairForcesParallel chunks particles over workers, each summing the full
// inner loop into a local accumulator that is reduced afterwards. The
// arithmetic per pair is identical to the serial kernel; only the summation
// order differs, which keeps results within floating-point tolerance of the
// reference.
func (c *CPUBackend) pairForcesParallel(pos, masses, charges []float64, dim int, g, ke, eps float64, forces []float64) {
	n := len(masses)

	local := make([][]float64, c.workers)
	for w := range local {
		local[w] = make([]float64, n*dim)
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}

			acc := local[worker]
			var d [3]float64

			for i := start; i < end; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}

					r2 := 0.0
					for k := 0; k < dim; k++ {
						d[k] = pos[j*dim+k] - pos[i*dim+k]
						r2 += d[k] * d[k]
					}

					r := math.Sqrt(r2)
					if r < eps {
						r = eps
					}
					r3Inv := 1.0 / (r * r * r)

					coef := (g*masses[i]*masses[j] - ke*charges[i]*charges[j]) * r3Inv
					for k := 0; k < dim; k++ {
						acc[i*dim+k] += coef * d[k]
					}
				}
			}
		}(w)
	}

	wg.Wait()

	for w := 0; w < c.workers; w++ {
		for i := range forces {
			forces[i] += local[w][i]
		}
	}
}
