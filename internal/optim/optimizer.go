// Package optim implements gradient-descent optimizers. An optimizer
// holds the parameters it updates; Step consumes a gradient map keyed
// by raw tensor identity, as produced by the autodiff backward pass.
package optim

import (
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

// Optimizer updates parameters in place from a gradient map.
type Optimizer interface {
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)
}

// paramData returns the float32 views of a parameter and its gradient,
// or ok=false when the parameter received no gradient this step.
func paramData[B tensor.Backend](p *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) (w, g []float32, ok bool) {
	grad, found := grads[p.Raw()]
	if !found {
		return nil, nil, false
	}
	return p.Raw().AsFloat32(), grad.AsFloat32(), true
}
