package ops

import "github.com/percept-ml/percept/internal/tensor"

// protect marks tensors non-unique for the duration of a backward pass
// so backend calls cannot take their in-place fast path on saved
// forward values or on gradients still held by the walker.
func protect(tensors ...*tensor.RawTensor) func() {
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

// reduceBroadcast sums a gradient over the dimensions that were
// broadcast in the forward pass, so the result matches targetShape.
// Returns a clone when no reduction is needed so callers can safely
// accumulate into the result.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad.Clone()
	}

	result := grad
	// Sum away extra leading dimensions.
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}
	// Sum over dimensions the input held at size 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] != 1 {
			result = backend.SumDim(result, d, true)
		}
	}
	if result == grad {
		result = grad.Clone()
	}
	return result
}

// negate returns -x without mutating x.
func negate(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	release := protect(x)
	defer release()
	return backend.MulScalar(x, -1.0)
}
