package ops

import "github.com/percept-ml/percept/internal/tensor"

// Sum records the full reduction y = sum(x), shape [1].
type Sum struct {
	x, out *tensor.RawTensor
}

func NewSum(x, out *tensor.RawTensor) *Sum {
	return &Sum{x: x, out: out}
}

func (op *Sum) Backward(grad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{fillLike(op.x, grad)}
}

func (op *Sum) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Sum) Output() *tensor.RawTensor  { return op.out }

// SumDim records y = sum(x, dim).
type SumDim struct {
	x, out  *tensor.RawTensor
	dim     int
	keepDim bool
}

func NewSumDim(x, out *tensor.RawTensor, dim int, keepDim bool) *SumDim {
	if dim < 0 {
		dim += len(x.Shape())
	}
	return &SumDim{x: x, out: out, dim: dim, keepDim: keepDim}
}

func (op *SumDim) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{spreadDim(grad, op.x.Shape(), op.dim, op.keepDim, backend)}
}

func (op *SumDim) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *SumDim) Output() *tensor.RawTensor  { return op.out }

// MeanDim records y = mean(x, dim). The gradient is spread like SumDim
// and scaled by 1/size.
type MeanDim struct {
	x, out  *tensor.RawTensor
	dim     int
	keepDim bool
}

func NewMeanDim(x, out *tensor.RawTensor, dim int, keepDim bool) *MeanDim {
	if dim < 0 {
		dim += len(x.Shape())
	}
	return &MeanDim{x: x, out: out, dim: dim, keepDim: keepDim}
}

func (op *MeanDim) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	spread := spreadDim(grad, op.x.Shape(), op.dim, op.keepDim, backend)
	return []*tensor.RawTensor{backend.MulScalar(spread, 1.0/float64(op.x.Shape()[op.dim]))}
}

func (op *MeanDim) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *MeanDim) Output() *tensor.RawTensor  { return op.out }

// fillLike broadcasts a scalar gradient of shape [1] over x's shape.
func fillLike(x, scalar *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), x.Device())
	if err != nil {
		panic(err)
	}
	switch x.DType() {
	case tensor.Float32:
		v := scalar.AsFloat32()[0]
		d := result.AsFloat32()
		for i := range d {
			d[i] = v
		}
	case tensor.Float64:
		v := scalar.AsFloat64()[0]
		d := result.AsFloat64()
		for i := range d {
			d[i] = v
		}
	}
	return result
}

// spreadDim expands a reduced gradient back to the input shape by
// repeating it along the reduced dimension.
func spreadDim(grad *tensor.RawTensor, inShape tensor.Shape, dim int, keepDim bool, backend tensor.Backend) *tensor.RawTensor {
	g := grad
	if !keepDim {
		keep := inShape.Clone()
		keep[dim] = 1
		g = backend.Reshape(grad, keep)
	}
	zeros, err := tensor.NewRaw(inShape, grad.DType(), grad.Device())
	if err != nil {
		panic(err)
	}
	release := protect(g)
	defer release()
	return backend.Add(zeros, g)
}
