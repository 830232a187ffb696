package cpu

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mul_scalar", x, scalar,
		func(v, s float32) float32 { return v * s },
		func(v, s float64) float64 { return v * s })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("add_scalar", x, scalar,
		func(v, s float32) float32 { return v + s },
		func(v, s float64) float64 { return v + s })
}

func (cpu *CPUBackend) scalarOp(
	name string,
	x *tensor.RawTensor,
	scalar any,
	f32 func(v, s float32) float32,
	f64 func(v, s float64) float64,
) *tensor.RawTensor {
	result := x
	if !x.IsUnique() {
		result = mustNewRaw(x.Shape(), x.DType(), cpu.device, name)
	}
	switch x.DType() {
	case tensor.Float32:
		s := toFloat64(scalar, name)
		d, src := result.AsFloat32(), x.AsFloat32()
		for i := range d {
			d[i] = f32(src[i], float32(s))
		}
	case tensor.Float64:
		s := toFloat64(scalar, name)
		d, src := result.AsFloat64(), x.AsFloat64()
		for i := range d {
			d[i] = f64(src[i], s)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	return result
}

// toFloat64 widens any supported scalar type for the kernels.
func toFloat64(scalar any, op string) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}
