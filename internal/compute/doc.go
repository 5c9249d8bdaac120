// Package compute provides hardware-accelerated pairwise force backends.
//
// The package automatically selects the best available backend:
//
//   - CUDA: GPU-accelerated pairwise force summation
//   - CPU: parallel fallback for systems without GPU
//
// All backends implement the same force formula and must stay within
// floating-point tolerance of the serial CPU reference, so a simulation can
// switch backends without changing its results:
//
//	backend := compute.GetBackend()
//	forces := backend.Forces(pos, masses, charges, dim, g, ke, eps)
//
// Build with CUDA support:
//
//	go build -tags cuda
package compute
