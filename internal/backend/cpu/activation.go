package cpu

import (
	"fmt"
	"math"

	"github.com/percept-ml/percept/internal/parallel"
	"github.com/percept-ml/percept/internal/tensor"
)

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Softmax computes the softmax along the given dimension. The maximum
// of each slice is subtracted before exponentiation so large logits do
// not overflow. Negative dims count from the end.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)
	if dim < 0 {
		dim += rank
	}
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("softmax: dim %d out of range for shape %v", dim, shape))
	}

	outer, size, inner := sliceDims(shape, dim)
	result := mustNewRaw(shape, x.DType(), cpu.device, "softmax")

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		parallel.For(outer*inner, func(oi int) {
			o, in := oi/inner, oi%inner
			base := o*size*inner + in
			maxVal := src[base]
			for k := 1; k < size; k++ {
				if v := src[base+k*inner]; v > maxVal {
					maxVal = v
				}
			}
			var sum float32
			for k := 0; k < size; k++ {
				e := float32(math.Exp(float64(src[base+k*inner] - maxVal)))
				dst[base+k*inner] = e
				sum += e
			}
			for k := 0; k < size; k++ {
				dst[base+k*inner] /= sum
			}
		}, cpu.pcfg)
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		parallel.For(outer*inner, func(oi int) {
			o, in := oi/inner, oi%inner
			base := o*size*inner + in
			maxVal := src[base]
			for k := 1; k < size; k++ {
				if v := src[base+k*inner]; v > maxVal {
					maxVal = v
				}
			}
			var sum float64
			for k := 0; k < size; k++ {
				e := math.Exp(src[base+k*inner] - maxVal)
				dst[base+k*inner] = e
				sum += e
			}
			for k := 0; k < size; k++ {
				dst[base+k*inner] /= sum
			}
		}, cpu.pcfg)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}
	return result
}

// sliceDims splits a shape around dim into (outer, size, inner) so that
// flat index = (o*size + k)*inner + i iterates slices along dim.
func sliceDims(shape tensor.Shape, dim int) (outer, size, inner int) {
	outer, size, inner = 1, shape[dim], 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	return outer, size, inner
}
