// Package autodiff provides reverse-mode automatic differentiation as
// a decorator around any backend. Forward calls are delegated to the
// wrapped backend and recorded on a gradient tape; Backward replays the
// tape in reverse to produce gradients for every tensor that
// contributed to the loss.
package autodiff

import (
	"github.com/percept-ml/percept/internal/autodiff/ops"
	"github.com/percept-ml/percept/internal/tensor"
)

// Backend wraps an inner backend and records every operation on its
// tape. It satisfies tensor.Backend itself, so models are written once
// and run unchanged with or without gradients.
//
// Inputs are forced non-unique around each delegated call so the inner
// backend cannot overwrite a tensor that the tape still references.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New wraps an inner backend with a fresh, stopped tape.
func New[B tensor.Backend](inner B) *Backend[B] {
	return &Backend[B]{inner: inner, tape: NewGradientTape()}
}

// Tape returns the gradient tape.
func (ab *Backend[B]) Tape() *GradientTape { return ab.tape }

// Inner returns the wrapped backend.
func (ab *Backend[B]) Inner() B { return ab.inner }

// Name returns the decorated backend name.
func (ab *Backend[B]) Name() string { return "Autodiff(" + ab.inner.Name() + ")" }

// Device returns the inner backend's device.
func (ab *Backend[B]) Device() tensor.Device { return ab.inner.Device() }

func (ab *Backend[B]) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	release := guard(a, b)
	out := ab.inner.Add(a, b)
	release()
	ab.tape.Record(ops.NewAdd(a, b, out))
	return out
}

func (ab *Backend[B]) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	release := guard(a, b)
	out := ab.inner.Sub(a, b)
	release()
	ab.tape.Record(ops.NewSub(a, b, out))
	return out
}

func (ab *Backend[B]) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	release := guard(a, b)
	out := ab.inner.Mul(a, b)
	release()
	ab.tape.Record(ops.NewMul(a, b, out))
	return out
}

func (ab *Backend[B]) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	release := guard(a, b)
	out := ab.inner.Div(a, b)
	release()
	ab.tape.Record(ops.NewDiv(a, b, out))
	return out
}

func (ab *Backend[B]) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	out := ab.inner.MatMul(a, b)
	ab.tape.Record(ops.NewMatMul(a, b, out))
	return out
}

func (ab *Backend[B]) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	out := ab.inner.BatchMatMul(a, b)
	ab.tape.Record(ops.NewBatchMatMul(a, b, out))
	return out
}

func (ab *Backend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	out := ab.inner.Reshape(t, newShape)
	ab.tape.Record(ops.NewReshape(t, out))
	return out
}

func (ab *Backend[B]) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	out := ab.inner.Unsqueeze(x, dim)
	ab.tape.Record(ops.NewReshape(x, out))
	return out
}

func (ab *Backend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	out := ab.inner.Transpose(t, axes...)
	ab.tape.Record(ops.NewTranspose(t, out, axes))
	return out
}

func (ab *Backend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	release := guard(x)
	out := ab.inner.MulScalar(x, scalar)
	release()
	ab.tape.Record(ops.NewMulScalar(x, out, scalar))
	return out
}

func (ab *Backend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	release := guard(x)
	out := ab.inner.AddScalar(x, scalar)
	release()
	ab.tape.Record(ops.NewAddScalar(x, out))
	return out
}

func (ab *Backend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	release := guard(x)
	out := ab.inner.Exp(x)
	release()
	ab.tape.Record(ops.NewExp(x, out))
	return out
}

func (ab *Backend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	release := guard(x)
	out := ab.inner.Sqrt(x)
	release()
	ab.tape.Record(ops.NewSqrt(x, out))
	return out
}

func (ab *Backend[B]) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	release := guard(x)
	out := ab.inner.Rsqrt(x)
	release()
	ab.tape.Record(ops.NewRsqrt(x, out))
	return out
}

func (ab *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	release := guard(x)
	out := ab.inner.ReLU(x)
	release()
	ab.tape.Record(ops.NewReLU(x, out))
	return out
}

func (ab *Backend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	out := ab.inner.Softmax(x, dim)
	ab.tape.Record(ops.NewSoftmax(x, out, dim))
	return out
}

func (ab *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := ab.inner.Sum(x)
	ab.tape.Record(ops.NewSum(x, out))
	return out
}

func (ab *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := ab.inner.SumDim(x, dim, keepDim)
	ab.tape.Record(ops.NewSumDim(x, out, dim, keepDim))
	return out
}

func (ab *Backend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := ab.inner.MeanDim(x, dim, keepDim)
	ab.tape.Record(ops.NewMeanDim(x, out, dim, keepDim))
	return out
}

// Argmax is not differentiable and is delegated without recording.
func (ab *Backend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return ab.inner.Argmax(x, dim)
}

func (ab *Backend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	out := ab.inner.CrossEntropy(logits, targets)
	ab.tape.Record(ops.NewCrossEntropy(logits, targets, out))
	return out
}

func guard(tensors ...*tensor.RawTensor) func() {
	releases := make([]func(), 0, len(tensors))
	for _, t := range tensors {
		releases = append(releases, t.ForceNonUnique())
	}
	return func() {
		for _, r := range releases {
			r()
		}
	}
}
