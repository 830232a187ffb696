package nn

import "github.com/percept-ml/percept/internal/tensor"

// EncoderLayer is one transformer encoder block in the post-norm
// arrangement: each sublayer's output is added to its input and the sum
// is normalized.
type EncoderLayer[B tensor.Backend] struct {
	SelfAttn *MultiHeadAttention[B]
	FFN      *FeedForward[B]
	Norm1    *LayerNorm[B]
	Norm2    *LayerNorm[B]
}

// NewEncoderLayer builds a block for dModel-wide tokens.
func NewEncoderLayer[B tensor.Backend](backend B, dModel, numHeads, dFF int, eps float32, name string) *EncoderLayer[B] {
	return &EncoderLayer[B]{
		SelfAttn: NewMultiHeadAttention(backend, dModel, numHeads, name+".attn"),
		FFN:      NewFeedForward(backend, dModel, dFF, name+".ffn"),
		Norm1:    NewLayerNorm(backend, dModel, eps, name+".norm1"),
		Norm2:    NewLayerNorm(backend, dModel, eps, name+".norm2"),
	}
}

// Forward applies self-attention and the feed-forward network, each
// followed by a residual connection and layer norm. Input and output
// are [batch, seq, dModel].
func (e *EncoderLayer[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	release := x.Raw().ForceNonUnique()
	attnOut, _ := e.SelfAttn.Forward(x, x, x)
	x = e.Norm1.Forward(x.Add(attnOut))
	release()

	release = x.Raw().ForceNonUnique()
	ffnOut := e.FFN.Forward(x)
	x = e.Norm2.Forward(x.Add(ffnOut))
	release()
	return x
}

func (e *EncoderLayer[B]) Parameters() []*Parameter[B] {
	return collectParameters[B](e.SelfAttn, e.FFN, e.Norm1, e.Norm2)
}
