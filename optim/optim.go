// Package optim exposes the optimizers.
package optim

import (
	"github.com/percept-ml/percept/internal/nn"
	internal "github.com/percept-ml/percept/internal/optim"
	"github.com/percept-ml/percept/internal/tensor"
)

type (
	// Optimizer updates parameters from a gradient map.
	Optimizer = internal.Optimizer
	// SGD is stochastic gradient descent with optional momentum.
	SGD[B tensor.Backend] = internal.SGD[B]
	// Adam is the Adam optimizer.
	Adam[B tensor.Backend] = internal.Adam[B]
)

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], lr, momentum float32) *SGD[B] {
	return internal.NewSGD(params, lr, momentum)
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], lr float32) *Adam[B] {
	return internal.NewAdam(params, lr)
}
