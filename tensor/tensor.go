// Package tensor is the public tensor API. It re-exports the internal
// tensor types so applications and the internal packages share one set
// of definitions.
package tensor

import internal "github.com/percept-ml/percept/internal/tensor"

type (
	// Shape describes tensor dimensions.
	Shape = internal.Shape
	// DataType identifies an element type at runtime.
	DataType = internal.DataType
	// Device identifies where tensor data lives.
	Device = internal.Device
	// RawTensor is the untyped storage shared by all backends.
	RawTensor = internal.RawTensor
	// Backend is the operation set every compute backend provides.
	Backend = internal.Backend
)

// DType constrains the element types a Tensor may hold.
type DType = internal.DType

// Tensor is a typed, backend-bound view over a RawTensor.
type Tensor[T internal.DType, B internal.Backend] = internal.Tensor[T, B]

const (
	Float32 = internal.Float32
	Float64 = internal.Float64
	Int32   = internal.Int32
	Int64   = internal.Int64

	CPU = internal.CPU
)

// New wraps an existing raw tensor.
func New[T internal.DType, B internal.Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return internal.New[T](raw, b)
}

// NewRaw allocates zeroed untyped storage.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return internal.NewRaw(shape, dtype, device)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice[T internal.DType, B internal.Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return internal.FromSlice(data, shape, b)
}

// Zeros creates a zero-filled tensor.
func Zeros[T internal.DType, B internal.Backend](shape Shape, b B) *Tensor[T, B] {
	return internal.Zeros[T](shape, b)
}

// Ones creates a one-filled tensor.
func Ones[T internal.DType, B internal.Backend](shape Shape, b B) *Tensor[T, B] {
	return internal.Ones[T](shape, b)
}

// Full creates a tensor filled with value.
func Full[T internal.DType, B internal.Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return internal.Full(shape, value, b)
}

// Randn creates a tensor of standard normal samples.
func Randn[T internal.DType, B internal.Backend](shape Shape, b B) *Tensor[T, B] {
	return internal.Randn[T](shape, b)
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return internal.BroadcastShapes(a, b)
}
