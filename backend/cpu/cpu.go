// Package cpu exposes the CPU compute backend.
package cpu

import internal "github.com/percept-ml/percept/internal/backend/cpu"

// Backend runs tensor operations on the CPU.
type Backend = internal.CPUBackend

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return internal.New()
}
