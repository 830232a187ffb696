package ops

import "github.com/percept-ml/percept/internal/tensor"

// Add records c = a + b with broadcasting.
type Add struct {
	a, b, out *tensor.RawTensor
}

func NewAdd(a, b, out *tensor.RawTensor) *Add {
	return &Add{a: a, b: b, out: out}
}

func (op *Add) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(grad, op.a.Shape(), backend),
		reduceBroadcast(grad, op.b.Shape(), backend),
	}
}

func (op *Add) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }
func (op *Add) Output() *tensor.RawTensor  { return op.out }

// Sub records c = a - b with broadcasting.
type Sub struct {
	a, b, out *tensor.RawTensor
}

func NewSub(a, b, out *tensor.RawTensor) *Sub {
	return &Sub{a: a, b: b, out: out}
}

func (op *Sub) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad)
	defer release()
	return []*tensor.RawTensor{
		reduceBroadcast(grad, op.a.Shape(), backend),
		reduceBroadcast(negate(grad, backend), op.b.Shape(), backend),
	}
}

func (op *Sub) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }
func (op *Sub) Output() *tensor.RawTensor  { return op.out }

// Mul records c = a * b with broadcasting.
type Mul struct {
	a, b, out *tensor.RawTensor
}

func NewMul(a, b, out *tensor.RawTensor) *Mul {
	return &Mul{a: a, b: b, out: out}
}

func (op *Mul) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad, op.a, op.b)
	defer release()
	gradA := backend.Mul(grad, op.b)
	gradB := backend.Mul(grad, op.a)
	return []*tensor.RawTensor{
		reduceBroadcast(gradA, op.a.Shape(), backend),
		reduceBroadcast(gradB, op.b.Shape(), backend),
	}
}

func (op *Mul) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }
func (op *Mul) Output() *tensor.RawTensor  { return op.out }

// Div records c = a / b with broadcasting.
type Div struct {
	a, b, out *tensor.RawTensor
}

func NewDiv(a, b, out *tensor.RawTensor) *Div {
	return &Div{a: a, b: b, out: out}
}

func (op *Div) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(grad, op.a, op.b, op.out)
	defer release()
	// d/da (a/b) = 1/b; d/db (a/b) = -a/b^2 = -out/b.
	gradA := backend.Div(grad, op.b)
	gradB := negate(backend.Div(backend.Mul(grad, op.out), op.b), backend)
	return []*tensor.RawTensor{
		reduceBroadcast(gradA, op.a.Shape(), backend),
		reduceBroadcast(gradB, op.b.Shape(), backend),
	}
}

func (op *Div) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }
func (op *Div) Output() *tensor.RawTensor  { return op.out }
