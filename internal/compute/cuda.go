//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void pair_forces_gpu(float* pos, float* masses, float* charges,
                            float* forces, int n, int dim,
                            float g, float ke, float eps);
*/
import "C"
import "unsafe"

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Forces(pos, masses, charges []float64, dim int, g, ke, eps float64) []float64 {
	if !c.available {
		cpu := NewCPUBackend()
		return cpu.Forces(pos, masses, charges, dim, g, ke, eps)
	}

	n := len(masses)

	posF := make([]float32, len(pos))
	massF := make([]float32, n)
	chargeF := make([]float32, n)
	forceF := make([]float32, n*dim)

	for i := range pos {
		posF[i] = float32(pos[i])
	}
	for i := 0; i < n; i++ {
		massF[i] = float32(masses[i])
		chargeF[i] = float32(charges[i])
	}

	C.pair_forces_gpu(
		(*C.float)(unsafe.Pointer(&posF[0])),
		(*C.float)(unsafe.Pointer(&massF[0])),
		(*C.float)(unsafe.Pointer(&chargeF[0])),
		(*C.float)(unsafe.Pointer(&forceF[0])),
		C.int(n),
		C.int(dim),
		C.float(g),
		C.float(ke),
		C.float(eps),
	)

	forces := make([]float64, n*dim)
	for i := range forceF {
		forces[i] = float64(forceF[i])
	}

	return forces
}
