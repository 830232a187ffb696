package nn

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// LayerNorm normalizes over the last dimension with learnable scale and
// shift. Epsilon sits inside the square root, so the output stays
// finite even for a constant input slice.
type LayerNorm[B tensor.Backend] struct {
	Gamma *Parameter[B] // [d], initialized to ones
	Beta  *Parameter[B] // [d], initialized to zeros
	Eps   float32

	dim     int
	backend B
}

// NewLayerNorm creates a layer norm over the trailing dimension of
// size dim.
func NewLayerNorm[B tensor.Backend](backend B, dim int, eps float32, name string) *LayerNorm[B] {
	gamma := tensor.Ones[float32](tensor.Shape{dim}, backend)
	beta := tensor.Zeros[float32](tensor.Shape{dim}, backend)
	return &LayerNorm[B]{
		Gamma:   NewParameter(name+".gamma", gamma),
		Beta:    NewParameter(name+".beta", beta),
		Eps:     eps,
		dim:     dim,
		backend: backend,
	}
}

// Forward computes gamma * (x - mean) / sqrt(var + eps) + beta, with
// mean and variance taken over the last dimension.
func (ln *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if shape[len(shape)-1] != ln.dim {
		panic(fmt.Sprintf("layernorm: expected trailing dimension %d, got shape %v", ln.dim, shape))
	}

	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)

	// centered feeds both the variance and the normalization; keep the
	// backend from clobbering it in place.
	release := centered.Raw().ForceNonUnique()
	variance := centered.Mul(centered).MeanDim(-1, true)
	invStd := variance.AddScalar(ln.Eps).Rsqrt()
	normed := centered.Mul(invStd)
	release()

	return normed.Mul(ln.Gamma.Tensor).Add(ln.Beta.Tensor)
}

// Parameters returns gamma and beta.
func (ln *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{ln.Gamma, ln.Beta}
}
