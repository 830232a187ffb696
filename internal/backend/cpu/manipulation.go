package cpu

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// Reshape returns a tensor with the same data and a new shape.
// Element count must be preserved.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}
	result := mustNewRaw(newShape, t.DType(), cpu.device, "reshape")
	copy(result.Data(), t.Data())
	return result
}

// Unsqueeze inserts a dimension of size 1 at the given position.
// Negative dims count from the end, PyTorch-style.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	rank := len(x.Shape())
	if dim < 0 {
		dim += rank + 1
	}
	if dim < 0 || dim > rank {
		panic(fmt.Sprintf("unsqueeze: dim %d out of range for shape %v", dim, x.Shape()))
	}
	newShape := make(tensor.Shape, 0, rank+1)
	newShape = append(newShape, x.Shape()[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, x.Shape()[dim:]...)
	return cpu.Reshape(x, newShape)
}

// Transpose permutes the dimensions of a tensor. With no axes it
// reverses all dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	rank := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: expected %d axes for shape %v, got %v", rank, t.Shape(), axes))
	}
	seen := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for shape %v", axes, t.Shape()))
		}
		seen[ax] = true
	}

	oldShape := t.Shape()
	newShape := make(tensor.Shape, rank)
	for i, ax := range axes {
		newShape[i] = oldShape[ax]
	}
	result := mustNewRaw(newShape, t.DType(), cpu.device, "transpose")

	oldStrides := oldShape.ComputeStrides()
	newStrides := newShape.ComputeStrides()
	n := t.NumElements()
	elemSize := t.DType().Size()
	src, dst := t.Data(), result.Data()

	coords := make([]int, rank)
	for flat := 0; flat < n; flat++ {
		rem := flat
		for d := 0; d < rank; d++ {
			coords[d] = rem / newStrides[d]
			rem -= coords[d] * newStrides[d]
		}
		srcFlat := 0
		for d := 0; d < rank; d++ {
			srcFlat += coords[d] * oldStrides[axes[d]]
		}
		copy(dst[flat*elemSize:(flat+1)*elemSize], src[srcFlat*elemSize:(srcFlat+1)*elemSize])
	}
	return result
}
