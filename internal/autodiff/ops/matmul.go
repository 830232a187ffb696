package ops

import "github.com/percept-ml/percept/internal/tensor"

// MatMul records c = a @ b for 2D operands.
type MatMul struct {
	a, b, out *tensor.RawTensor
}

func NewMatMul(a, b, out *tensor.RawTensor) *MatMul {
	return &MatMul{a: a, b: b, out: out}
}

func (op *MatMul) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	// dA = grad @ B^T, dB = A^T @ grad.
	gradA := backend.MatMul(grad, backend.Transpose(op.b))
	gradB := backend.MatMul(backend.Transpose(op.a), grad)
	return []*tensor.RawTensor{gradA, gradB}
}

func (op *MatMul) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }
func (op *MatMul) Output() *tensor.RawTensor  { return op.out }

// BatchMatMul records c = a @ b over the trailing two dimensions.
type BatchMatMul struct {
	a, b, out *tensor.RawTensor
}

func NewBatchMatMul(a, b, out *tensor.RawTensor) *BatchMatMul {
	return &BatchMatMul{a: a, b: b, out: out}
}

func (op *BatchMatMul) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.BatchMatMul(grad, swapLastTwo(op.b, backend))
	gradB := backend.BatchMatMul(swapLastTwo(op.a, backend), grad)
	return []*tensor.RawTensor{gradA, gradB}
}

func (op *BatchMatMul) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }
func (op *BatchMatMul) Output() *tensor.RawTensor  { return op.out }

// swapLastTwo transposes the trailing two dimensions, keeping batch
// dimensions in place.
func swapLastTwo(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	rank := len(x.Shape())
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = i
	}
	axes[rank-2], axes[rank-1] = rank-1, rank-2
	return backend.Transpose(x, axes...)
}
