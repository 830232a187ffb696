package ops

import "github.com/percept-ml/percept/internal/tensor"

// Softmax records y = softmax(x, dim).
type Softmax struct {
	x, out *tensor.RawTensor
	dim    int
}

func NewSoftmax(x, out *tensor.RawTensor, dim int) *Softmax {
	if dim < 0 {
		dim += len(x.Shape())
	}
	return &Softmax{x: x, out: out, dim: dim}
}

// Backward uses the Jacobian-vector product
// dx = s * (g - sum(g*s, dim)), where s is the forward output.
func (op *Softmax) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad, op.out)
	defer release()
	gs := backend.Mul(grad, op.out)
	inner := backend.SumDim(gs, op.dim, true)
	return []*tensor.RawTensor{backend.Mul(op.out, backend.Sub(grad, inner))}
}

func (op *Softmax) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Softmax) Output() *tensor.RawTensor  { return op.out }
