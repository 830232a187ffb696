package nn

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// MultiHeadAttention projects queries, keys and values into numHeads
// subspaces of size dModel/numHeads, attends in each head
// independently, and merges the results through an output projection.
type MultiHeadAttention[B tensor.Backend] struct {
	WQ, WK, WV, WO *Linear[B]

	dModel   int
	numHeads int
	headDim  int
	attn     ScaledDotProductAttention[B]
	backend  B
}

// NewMultiHeadAttention creates the four projections. dModel must be
// divisible by numHeads.
func NewMultiHeadAttention[B tensor.Backend](backend B, dModel, numHeads int, name string) *MultiHeadAttention[B] {
	if numHeads <= 0 || dModel%numHeads != 0 {
		panic(fmt.Sprintf("mha: dModel %d not divisible by numHeads %d", dModel, numHeads))
	}
	return &MultiHeadAttention[B]{
		WQ:       NewLinear(backend, dModel, dModel, true, name+".wq"),
		WK:       NewLinear(backend, dModel, dModel, true, name+".wk"),
		WV:       NewLinear(backend, dModel, dModel, true, name+".wv"),
		WO:       NewLinear(backend, dModel, dModel, true, name+".wo"),
		dModel:   dModel,
		numHeads: numHeads,
		headDim:  dModel / numHeads,
		backend:  backend,
	}
}

// Forward attends query positions over key/value positions. All three
// inputs are [batch, seq, dModel]; self-attention passes the same
// tensor three times. Returns the output [batch, seq, dModel] and the
// attention weights [batch, heads, seq, seq].
func (m *MultiHeadAttention[B]) Forward(query, key, value *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	qShape := query.Shape()
	if len(qShape) != 3 || qShape[2] != m.dModel {
		panic(fmt.Sprintf("mha: expected [batch, seq, %d] query, got %v", m.dModel, qShape))
	}
	batch := qShape[0]

	q := m.split(m.WQ.Forward(query), batch)
	k := m.split(m.WK.Forward(key), batch)
	v := m.split(m.WV.Forward(value), batch)

	attended, weights := m.attn.Forward(q, k, v)
	return m.WO.Forward(m.merge(attended, batch)), weights
}

// split reshapes [batch, seq, dModel] to [batch, heads, seq, headDim].
func (m *MultiHeadAttention[B]) split(x *tensor.Tensor[float32, B], batch int) *tensor.Tensor[float32, B] {
	seq := x.Shape()[1]
	return x.Reshape(batch, seq, m.numHeads, m.headDim).Transpose(0, 2, 1, 3)
}

// merge is the inverse of split.
func (m *MultiHeadAttention[B]) merge(x *tensor.Tensor[float32, B], batch int) *tensor.Tensor[float32, B] {
	seq := x.Shape()[2]
	return x.Transpose(0, 2, 1, 3).Reshape(batch, seq, m.dModel)
}

// Parameters returns the four projection layers' parameters.
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	return collectParameters[B](m.WQ, m.WK, m.WV, m.WO)
}
