package compute

// Backend evaluates the pairwise gravity and Coulomb force sum for a flat
// particle layout. Implementations must be stateless per call and agree with
// the serial CPU reference to floating-point tolerance, so a driver can swap
// backends without changing simulation results.
type Backend interface {
	Name() string
	Available() bool

	// Forces returns the net force on every particle as a flat slice of
	// length len(pos). pos holds n*dim coordinates; masses and charges hold
	// one scalar per particle. eps is the minimum pair separation used in
	// the force formulas.
	Forces(pos, masses, charges []float64, dim int, g, ke, eps float64) []float64

	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend prefers CUDA when a device is present, otherwise CPU.
func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
