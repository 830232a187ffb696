package cpu

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// Sum reduces all elements to a scalar tensor of shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(tensor.Shape{1}, x.DType(), cpu.device, "sum")
	switch x.DType() {
	case tensor.Float32:
		var total float32
		for _, v := range x.AsFloat32() {
			total += v
		}
		result.AsFloat32()[0] = total
	case tensor.Float64:
		var total float64
		for _, v := range x.AsFloat64() {
			total += v
		}
		result.AsFloat64()[0] = total
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

// SumDim sums along the given dimension. With keepDim the reduced
// dimension stays as size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sum_dim", x, dim, keepDim, false)
}

// MeanDim averages along the given dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("mean_dim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)
	if dim < 0 {
		dim += rank
	}
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("%s: dim %d out of range for shape %v", name, dim, shape))
	}

	outer, size, inner := sliceDims(shape, dim)
	outShape := reducedShape(shape, dim, keepDim)
	result := mustNewRaw(outShape, x.DType(), cpu.device, name)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				base := o*size*inner + in
				var total float32
				for k := 0; k < size; k++ {
					total += src[base+k*inner]
				}
				if mean {
					total /= float32(size)
				}
				dst[o*inner+in] = total
			}
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				base := o*size*inner + in
				var total float64
				for k := 0; k < size; k++ {
					total += src[base+k*inner]
				}
				if mean {
					total /= float64(size)
				}
				dst[o*inner+in] = total
			}
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	return result
}

// Argmax returns the index of the maximum along dim as an Int32 tensor
// with the reduced dimension removed. Ties resolve to the lowest index.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)
	if dim < 0 {
		dim += rank
	}
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("argmax: dim %d out of range for shape %v", dim, shape))
	}

	outer, size, inner := sliceDims(shape, dim)
	result := mustNewRaw(reducedShape(shape, dim, false), tensor.Int32, cpu.device, "argmax")
	dst := result.AsInt32()

	switch x.DType() {
	case tensor.Float32:
		src := x.AsFloat32()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				base := o*size*inner + in
				best, bestIdx := src[base], int32(0)
				for k := 1; k < size; k++ {
					if v := src[base+k*inner]; v > best {
						best, bestIdx = v, int32(k)
					}
				}
				dst[o*inner+in] = bestIdx
			}
		}
	case tensor.Float64:
		src := x.AsFloat64()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				base := o*size*inner + in
				best, bestIdx := src[base], int32(0)
				for k := 1; k < size; k++ {
					if v := src[base+k*inner]; v > best {
						best, bestIdx = v, int32(k)
					}
				}
				dst[o*inner+in] = bestIdx
			}
		}
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}
	return result
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	out = append(out, shape[:dim]...)
	out = append(out, shape[dim+1:]...)
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}
