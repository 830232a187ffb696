package cpu

import "github.com/percept-ml/percept/internal/tensor"

// broadcastIndexer returns a function mapping a flat index in the output
// shape to the corresponding flat index in the input shape, following
// right-aligned broadcasting: input dimensions of size 1 (and missing
// leading dimensions) contribute stride 0.
func broadcastIndexer(inShape, outShape tensor.Shape, outStrides []int) func(int) int {
	inStrides := inShape.ComputeStrides()
	offset := len(outShape) - len(inShape)

	// Effective stride per output dimension.
	strides := make([]int, len(outShape))
	for d := range outShape {
		in := d - offset
		if in < 0 || inShape[in] == 1 {
			strides[d] = 0
		} else {
			strides[d] = inStrides[in]
		}
	}

	return func(flat int) int {
		idx := 0
		for d := range outShape {
			coord := flat / outStrides[d]
			flat -= coord * outStrides[d]
			idx += coord * strides[d]
		}
		return idx
	}
}
