package optim

import (
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

// SGD is stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] struct {
	params   []*nn.Parameter[B]
	lr       float32
	momentum float32
	velocity [][]float32
}

// NewSGD creates an SGD optimizer. A momentum of 0 disables the
// velocity buffers.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], lr, momentum float32) *SGD[B] {
	s := &SGD[B]{params: params, lr: lr, momentum: momentum}
	if momentum != 0 {
		s.velocity = make([][]float32, len(params))
		for i, p := range params {
			s.velocity[i] = make([]float32, p.Tensor.NumElements())
		}
	}
	return s
}

// Step applies one update: w -= lr * g, or with momentum
// v = momentum*v + g; w -= lr * v.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for i, p := range s.params {
		w, g, ok := paramData(p, grads)
		if !ok {
			continue
		}
		if s.momentum == 0 {
			for j := range w {
				w[j] -= s.lr * g[j]
			}
			continue
		}
		v := s.velocity[i]
		for j := range w {
			v[j] = s.momentum*v[j] + g[j]
			w[j] -= s.lr * v[j]
		}
	}
}
