package ops

import "github.com/percept-ml/percept/internal/tensor"

// Reshape records a shape change; Unsqueeze is recorded through it as
// well since both only rearrange metadata over the same data.
type Reshape struct {
	x, out *tensor.RawTensor
}

func NewReshape(x, out *tensor.RawTensor) *Reshape {
	return &Reshape{x: x, out: out}
}

func (op *Reshape) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(grad, op.x.Shape())}
}

func (op *Reshape) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Reshape) Output() *tensor.RawTensor  { return op.out }

// Transpose records a dimension permutation.
type Transpose struct {
	x, out *tensor.RawTensor
	axes   []int
}

func NewTranspose(x, out *tensor.RawTensor, axes []int) *Transpose {
	if len(axes) == 0 {
		rank := len(x.Shape())
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	return &Transpose{x: x, out: out, axes: axes}
}

func (op *Transpose) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	// The gradient flows back through the inverse permutation.
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(grad, inverse...)}
}

func (op *Transpose) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Transpose) Output() *tensor.RawTensor  { return op.out }
