// Package cpu implements the pure-Go CPU backend.
//
// All operations are vectorized over flat slices; matrix multiplication
// parallelizes across rows/batches with the parallel package. Binary
// operations take an in-place fast path when the left operand holds the
// only reference to its buffer (the autodiff backend disables this via
// ForceNonUnique to protect the recorded graph).
package cpu

import (
	"fmt"

	"github.com/percept-ml/percept/internal/parallel"
	"github.com/percept-ml/percept/internal/tensor"
)

// CPUBackend implements tensor operations on the CPU.
type CPUBackend struct {
	device tensor.Device
	pcfg   parallel.Config
}

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		pcfg:   parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binaryOp applies an element-wise binary kernel with broadcasting.
func (cpu *CPUBackend) binaryOp(
	name string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		// Fast path: identical shapes.
		if a.IsUnique() {
			applySameShape(a, a, b, f32, f64)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), cpu.device, name)
		applySameShape(result, a, b, f32, f64)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), cpu.device, name)
	applyBroadcast(result, a, b, outShape, f32, f64)
	return result
}

// applySameShape runs the kernel over flat data of equal shapes.
// dst may alias a for in-place execution.
func applySameShape(
	dst, a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) {
	switch a.DType() {
	case tensor.Float32:
		d, x, y := dst.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		for i := range d {
			d[i] = f32(x[i], y[i])
		}
	case tensor.Float64:
		d, x, y := dst.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		for i := range d {
			d[i] = f64(x[i], y[i])
		}
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", a.DType()))
	}
}

// applyBroadcast runs the kernel with right-aligned broadcasting.
func applyBroadcast(
	dst, a, b *tensor.RawTensor,
	outShape tensor.Shape,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) {
	outStrides := outShape.ComputeStrides()
	aIdx := broadcastIndexer(a.Shape(), outShape, outStrides)
	bIdx := broadcastIndexer(b.Shape(), outShape, outStrides)

	n := outShape.NumElements()
	switch a.DType() {
	case tensor.Float32:
		d, x, y := dst.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		for i := 0; i < n; i++ {
			d[i] = f32(x[aIdx(i)], y[bIdx(i)])
		}
	case tensor.Float64:
		d, x, y := dst.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		for i := 0; i < n; i++ {
			d[i] = f64(x[aIdx(i)], y[bIdx(i)])
		}
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", a.DType()))
	}
}

func mustNewRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device, op string) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}
