package nn

import "github.com/percept-ml/percept/internal/tensor"

// Parameter is a named, trainable tensor. Optimizers look gradients up
// by the parameter's raw tensor identity.
type Parameter[B tensor.Backend] struct {
	Name   string
	Tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps a tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{Name: name, Tensor: t}
}

// Raw returns the underlying raw tensor, the key used in gradient maps.
func (p *Parameter[B]) Raw() *tensor.RawTensor {
	return p.Tensor.Raw()
}
