// Package ops defines the recorded operations of the autodiff tape and
// their backward passes.
//
// Each operation captures the raw tensors that flowed through a forward
// call. Backward receives the gradient of the loss with respect to the
// operation's output and returns one gradient per input, in input
// order. A nil entry marks a non-differentiable input (for example
// integer class targets).
package ops

import "github.com/percept-ml/percept/internal/tensor"

// Operation is a single differentiable step recorded on the tape.
type Operation interface {
	// Backward computes input gradients from the output gradient.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor
	// Inputs returns the forward inputs, in call order.
	Inputs() []*tensor.RawTensor
	// Output returns the forward result.
	Output() *tensor.RawTensor
}
