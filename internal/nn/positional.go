package nn

import (
	"fmt"
	"math"

	"github.com/percept-ml/percept/internal/tensor"
)

// PositionalEncoding injects fixed sinusoidal position information.
// The table is [1, maxLen, dModel] and is computed once at
// construction; it holds no trainable parameters.
//
// Even columns carry sin(pos / 10000^(i/d)), odd columns the cosine at
// the same frequency.
type PositionalEncoding[B tensor.Backend] struct {
	pe      *tensor.Tensor[float32, B]
	maxLen  int
	dModel  int
	backend B
}

// NewPositionalEncoding builds the encoding table for sequences up to
// maxLen positions.
func NewPositionalEncoding[B tensor.Backend](backend B, dModel, maxLen int) *PositionalEncoding[B] {
	if dModel <= 0 || maxLen <= 0 {
		panic(fmt.Sprintf("positional encoding: invalid dModel %d or maxLen %d", dModel, maxLen))
	}

	pe := tensor.Zeros[float32](tensor.Shape{1, maxLen, dModel}, backend)
	data := pe.Data()
	for pos := 0; pos < maxLen; pos++ {
		row := data[pos*dModel : (pos+1)*dModel]
		for i := 0; i < dModel; i += 2 {
			angle := float64(pos) / math.Pow(10000, float64(i)/float64(dModel))
			row[i] = float32(math.Sin(angle))
			if i+1 < dModel {
				row[i+1] = float32(math.Cos(angle))
			}
		}
	}

	return &PositionalEncoding[B]{pe: pe, maxLen: maxLen, dModel: dModel, backend: backend}
}

// Forward adds the first L rows of the table to a [batch, L, dModel]
// input. Sequences longer than maxLen are a construction error.
func (p *PositionalEncoding[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[2] != p.dModel {
		panic(fmt.Sprintf("positional encoding: expected [batch, seq, %d] input, got %v", p.dModel, shape))
	}
	seqLen := shape[1]
	if seqLen > p.maxLen {
		panic(fmt.Sprintf("positional encoding: sequence length %d exceeds max %d", seqLen, p.maxLen))
	}

	return x.Add(p.slice(seqLen))
}

// Table returns the full encoding table [1, maxLen, dModel].
func (p *PositionalEncoding[B]) Table() *tensor.Tensor[float32, B] {
	return p.pe
}

// slice copies the leading seqLen positions into a [1, seqLen, dModel]
// tensor the forward pass can broadcast against.
func (p *PositionalEncoding[B]) slice(seqLen int) *tensor.Tensor[float32, B] {
	if seqLen == p.maxLen {
		return p.pe
	}
	out := tensor.Zeros[float32](tensor.Shape{1, seqLen, p.dModel}, p.backend)
	copy(out.Data(), p.pe.Data()[:seqLen*p.dModel])
	return out
}

// Parameters returns nil: the table is fixed.
func (p *PositionalEncoding[B]) Parameters() []*Parameter[B] { return nil }
