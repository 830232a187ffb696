package cpu

import (
	"fmt"

	"github.com/percept-ml/percept/internal/parallel"
	"github.com/percept-ml/percept/internal/tensor"
)

// BatchMatMul multiplies the trailing two dimensions of two tensors of
// equal rank (3D or 4D), batching over the leading dimensions:
// [..., m, k] @ [..., k, n] -> [..., m, n].
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != len(bShape) || (len(aShape) != 3 && len(aShape) != 4) {
		panic(fmt.Sprintf("batchmatmul: expected matching 3D or 4D tensors, got %v and %v", aShape, bShape))
	}
	for d := 0; d < len(aShape)-2; d++ {
		if aShape[d] != bShape[d] {
			panic(fmt.Sprintf("batchmatmul: batch dimensions must match, got %v and %v", aShape, bShape))
		}
	}
	rank := len(aShape)
	m, k, n := aShape[rank-2], aShape[rank-1], bShape[rank-1]
	if bShape[rank-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimensions must match, got %v and %v", aShape, bShape))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("batchmatmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	batch := 1
	outShape := make(tensor.Shape, rank)
	copy(outShape, aShape[:rank-2])
	outShape[rank-2], outShape[rank-1] = m, n
	for d := 0; d < rank-2; d++ {
		batch *= aShape[d]
	}

	result := mustNewRaw(outShape, a.DType(), cpu.device, "batchmatmul")

	switch a.DType() {
	case tensor.Float32:
		out, x, y := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		parallel.For(batch, func(bi int) {
			matmulFloat32Serial(
				out[bi*m*n:(bi+1)*m*n],
				x[bi*m*k:(bi+1)*m*k],
				y[bi*k*n:(bi+1)*k*n],
				m, k, n)
		}, cpu.pcfg)
	case tensor.Float64:
		out, x, y := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		parallel.For(batch, func(bi int) {
			matmulFloat64Serial(
				out[bi*m*n:(bi+1)*m*n],
				x[bi*m*k:(bi+1)*m*k],
				y[bi*k*n:(bi+1)*k*n],
				m, k, n)
		}, cpu.pcfg)
	default:
		panic(fmt.Sprintf("batchmatmul: unsupported dtype %s", a.DType()))
	}
	return result
}

// Serial kernels for per-batch work; parallelism lives at the batch level.
func matmulFloat32Serial(out, a, b []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		aRow := a[i*k : (i+1)*k]
		outRow := out[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := aRow[p]
			if av == 0 {
				continue
			}
			bRow := b[p*n : (p+1)*n]
			for j := range outRow {
				outRow[j] += av * bRow[j]
			}
		}
	}
}

func matmulFloat64Serial(out, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		aRow := a[i*k : (i+1)*k]
		outRow := out[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := aRow[p]
			if av == 0 {
				continue
			}
			bRow := b[p*n : (p+1)*n]
			for j := range outRow {
				outRow[j] += av * bRow[j]
			}
		}
	}
}
