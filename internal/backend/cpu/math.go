package cpu

import (
	"fmt"
	"math"

	"github.com/percept-ml/percept/internal/tensor"
)

// Exp computes the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("exp", x, math.Exp)
}

// Sqrt computes the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("sqrt", x, math.Sqrt)
}

// Rsqrt computes the element-wise reciprocal square root.
func (cpu *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("rsqrt", x, func(v float64) float64 { return 1.0 / math.Sqrt(v) })
}

func (cpu *CPUBackend) unaryOp(name string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := x
	if !x.IsUnique() {
		result = mustNewRaw(x.Shape(), x.DType(), cpu.device, name)
	}
	switch x.DType() {
	case tensor.Float32:
		d, src := result.AsFloat32(), x.AsFloat32()
		for i := range d {
			d[i] = float32(f(float64(src[i])))
		}
	case tensor.Float64:
		d, src := result.AsFloat64(), x.AsFloat64()
		for i := range d {
			d[i] = f(src[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	return result
}
