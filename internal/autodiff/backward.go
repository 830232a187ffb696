package autodiff

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// Backward replays the tape in reverse from loss and returns the
// gradient of loss with respect to every tensor it reached. The loss
// must be a scalar of shape [1]. Gradients for tensors feeding multiple
// operations are accumulated by summation.
//
// The walk uses the inner (non-recording) backend so backward math does
// not grow the tape.
func (ab *Backend[B]) Backward(loss *tensor.RawTensor) map[*tensor.RawTensor]*tensor.RawTensor {
	if loss.NumElements() != 1 {
		panic(fmt.Sprintf("backward: loss must be scalar, got shape %v", loss.Shape()))
	}

	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	grads[loss] = onesLike(loss)

	recorded := ab.tape.Operations()
	for i := len(recorded) - 1; i >= 0; i-- {
		op := recorded[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			// This operation did not contribute to the loss.
			continue
		}

		release := outGrad.ForceNonUnique()
		inputGrads := op.Backward(outGrad, ab.inner)
		release()

		inputs := op.Inputs()
		if len(inputGrads) != len(inputs) {
			panic(fmt.Sprintf("backward: %T returned %d gradients for %d inputs",
				op, len(inputGrads), len(inputs)))
		}
		for j, input := range inputs {
			g := inputGrads[j]
			if g == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = accumulate(existing, g, ab.inner)
			} else {
				grads[input] = g
			}
		}
	}
	return grads
}

// accumulate sums two gradients without disturbing tensors the grads
// map may still hand out.
func accumulate(a, b *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	releaseB := b.ForceNonUnique()
	defer releaseB()
	return backend.Add(a, b)
}

func onesLike(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(err)
	}
	switch t.DType() {
	case tensor.Float32:
		d := result.AsFloat32()
		for i := range d {
			d[i] = 1
		}
	case tensor.Float64:
		d := result.AsFloat64()
		for i := range d {
			d[i] = 1
		}
	default:
		panic(fmt.Sprintf("backward: unsupported loss dtype %s", t.DType()))
	}
	return result
}
