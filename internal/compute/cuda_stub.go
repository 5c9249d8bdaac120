//go:build !cuda

package compute

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Forces(pos, masses, charges []float64, dim int, g, ke, eps float64) []float64 {
	cpu := NewCPUBackend()
	return cpu.Forces(pos, masses, charges, dim, g, ke, eps)
}
