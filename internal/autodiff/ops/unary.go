package ops

import "github.com/percept-ml/percept/internal/tensor"

// MulScalar records y = x * s.
type MulScalar struct {
	x, out *tensor.RawTensor
	scalar any
}

func NewMulScalar(x, out *tensor.RawTensor, scalar any) *MulScalar {
	return &MulScalar{x: x, out: out, scalar: scalar}
}

func (op *MulScalar) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad)
	defer release()
	return []*tensor.RawTensor{backend.MulScalar(grad, op.scalar)}
}

func (op *MulScalar) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *MulScalar) Output() *tensor.RawTensor  { return op.out }

// AddScalar records y = x + s. The gradient passes through unchanged.
type AddScalar struct {
	x, out *tensor.RawTensor
}

func NewAddScalar(x, out *tensor.RawTensor) *AddScalar {
	return &AddScalar{x: x, out: out}
}

func (op *AddScalar) Backward(grad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{grad.Clone()}
}

func (op *AddScalar) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *AddScalar) Output() *tensor.RawTensor  { return op.out }

// Exp records y = e^x.
type Exp struct {
	x, out *tensor.RawTensor
}

func NewExp(x, out *tensor.RawTensor) *Exp {
	return &Exp{x: x, out: out}
}

func (op *Exp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad, op.out)
	defer release()
	return []*tensor.RawTensor{backend.Mul(grad, op.out)}
}

func (op *Exp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Exp) Output() *tensor.RawTensor  { return op.out }

// Sqrt records y = sqrt(x); dy/dx = 1/(2y).
type Sqrt struct {
	x, out *tensor.RawTensor
}

func NewSqrt(x, out *tensor.RawTensor) *Sqrt {
	return &Sqrt{x: x, out: out}
}

func (op *Sqrt) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad, op.out)
	defer release()
	return []*tensor.RawTensor{backend.Div(grad, backend.MulScalar(op.out, 2.0))}
}

func (op *Sqrt) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Sqrt) Output() *tensor.RawTensor  { return op.out }

// Rsqrt records y = x^(-1/2); dy/dx = -y^3/2.
type Rsqrt struct {
	x, out *tensor.RawTensor
}

func NewRsqrt(x, out *tensor.RawTensor) *Rsqrt {
	return &Rsqrt{x: x, out: out}
}

func (op *Rsqrt) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad, op.out)
	defer release()
	cubed := backend.Mul(backend.Mul(op.out, op.out), op.out)
	return []*tensor.RawTensor{backend.Mul(grad, backend.MulScalar(cubed, -0.5))}
}

func (op *Rsqrt) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *Rsqrt) Output() *tensor.RawTensor  { return op.out }

// ReLU records y = max(0, x). The gradient is masked by the sign of
// the forward input.
type ReLU struct {
	x, out *tensor.RawTensor
}

func NewReLU(x, out *tensor.RawTensor) *ReLU {
	return &ReLU{x: x, out: out}
}

func (op *ReLU) Backward(grad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	result, err := tensor.NewRaw(op.x.Shape(), op.x.DType(), op.x.Device())
	if err != nil {
		panic(err)
	}
	switch op.x.DType() {
	case tensor.Float32:
		x, g, d := op.x.AsFloat32(), grad.AsFloat32(), result.AsFloat32()
		for i := range d {
			if x[i] > 0 {
				d[i] = g[i]
			}
		}
	case tensor.Float64:
		x, g, d := op.x.AsFloat64(), grad.AsFloat64(), result.AsFloat64()
		for i := range d {
			if x[i] > 0 {
				d[i] = g[i]
			}
		}
	}
	return []*tensor.RawTensor{result}
}

func (op *ReLU) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }
func (op *ReLU) Output() *tensor.RawTensor  { return op.out }
