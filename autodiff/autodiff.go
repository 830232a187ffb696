// Package autodiff exposes the reverse-mode autodiff backend
// decorator.
package autodiff

import (
	internal "github.com/percept-ml/percept/internal/autodiff"
	"github.com/percept-ml/percept/internal/tensor"
)

// Backend wraps any compute backend and records operations for
// backpropagation.
type Backend[B tensor.Backend] = internal.Backend[B]

// GradientTape holds the recorded operations of a forward pass.
type GradientTape = internal.GradientTape

// New wraps an inner backend with a fresh, stopped tape.
func New[B tensor.Backend](inner B) *Backend[B] {
	return internal.New(inner)
}
