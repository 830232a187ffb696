package nn

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// Linear is a fully connected layer computing x @ W + b. The weight is
// stored [in, out] so no transpose is needed in the forward pass.
type Linear[B tensor.Backend] struct {
	Weight *Parameter[B] // [in, out]
	Bias   *Parameter[B] // [1, out], nil when disabled

	inFeatures  int
	outFeatures int
	backend     B
}

// NewLinear creates a linear layer with Xavier-initialized weights and
// zero bias.
func NewLinear[B tensor.Backend](backend B, inFeatures, outFeatures int, bias bool, name string) *Linear[B] {
	weight := tensor.Zeros[float32](tensor.Shape{inFeatures, outFeatures}, backend)
	xavierUniform(weight.Data(), inFeatures, outFeatures)

	l := &Linear[B]{
		Weight:      NewParameter(name+".weight", weight),
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		backend:     backend,
	}
	if bias {
		l.Bias = NewParameter(name+".bias", tensor.Zeros[float32](tensor.Shape{1, outFeatures}, backend))
	}
	return l
}

// Forward applies the layer to a 2D [n, in] or 3D [batch, seq, in]
// input. 3D inputs are flattened to 2D for the matmul and restored
// afterwards.
func (l *Linear[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	rank := len(shape)
	if rank != 2 && rank != 3 {
		panic(fmt.Sprintf("linear: expected 2D or 3D input, got %v", shape))
	}
	if shape[rank-1] != l.inFeatures {
		panic(fmt.Sprintf("linear: expected %d input features, got shape %v", l.inFeatures, shape))
	}

	h := x
	if rank == 3 {
		h = h.Reshape(shape[0]*shape[1], l.inFeatures)
	}
	h = h.MatMul(l.Weight.Tensor)
	if l.Bias != nil {
		h = h.Add(l.Bias.Tensor)
	}
	if rank == 3 {
		h = h.Reshape(shape[0], shape[1], l.outFeatures)
	}
	return h
}

// Parameters returns the weight and, when present, the bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.Bias == nil {
		return []*Parameter[B]{l.Weight}
	}
	return []*Parameter[B]{l.Weight, l.Bias}
}
