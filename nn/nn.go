// Package nn exposes the neural network layers.
package nn

import (
	internal "github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

type (
	// Module is anything that can report trainable parameters.
	Module[B tensor.Backend] = internal.Module[B]
	// Parameter is a named trainable tensor.
	Parameter[B tensor.Backend] = internal.Parameter[B]
	// Linear is a fully connected layer.
	Linear[B tensor.Backend] = internal.Linear[B]
	// LayerNorm normalizes over the last dimension.
	LayerNorm[B tensor.Backend] = internal.LayerNorm[B]
	// PositionalEncoding adds fixed sinusoidal position information.
	PositionalEncoding[B tensor.Backend] = internal.PositionalEncoding[B]
	// ScaledDotProductAttention is the attention kernel.
	ScaledDotProductAttention[B tensor.Backend] = internal.ScaledDotProductAttention[B]
	// MultiHeadAttention attends in parallel subspaces.
	MultiHeadAttention[B tensor.Backend] = internal.MultiHeadAttention[B]
	// FeedForward is the position-wise MLP.
	FeedForward[B tensor.Backend] = internal.FeedForward[B]
	// EncoderLayer is one post-norm transformer block.
	EncoderLayer[B tensor.Backend] = internal.EncoderLayer[B]
	// CrossEntropyLoss computes mean cross-entropy from logits.
	CrossEntropyLoss[B tensor.Backend] = internal.CrossEntropyLoss[B]
)

// SeedInit reseeds weight initialization for reproducible models.
func SeedInit(seed int64) { internal.SeedInit(seed) }

// NewParameter wraps a tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return internal.NewParameter(name, t)
}

// NewLinear creates a fully connected layer.
func NewLinear[B tensor.Backend](backend B, inFeatures, outFeatures int, bias bool, name string) *Linear[B] {
	return internal.NewLinear(backend, inFeatures, outFeatures, bias, name)
}

// NewLayerNorm creates a layer norm over a trailing dimension of size dim.
func NewLayerNorm[B tensor.Backend](backend B, dim int, eps float32, name string) *LayerNorm[B] {
	return internal.NewLayerNorm(backend, dim, eps, name)
}

// NewPositionalEncoding builds a sinusoidal table for sequences up to maxLen.
func NewPositionalEncoding[B tensor.Backend](backend B, dModel, maxLen int) *PositionalEncoding[B] {
	return internal.NewPositionalEncoding(backend, dModel, maxLen)
}

// NewMultiHeadAttention creates a multi-head attention block.
func NewMultiHeadAttention[B tensor.Backend](backend B, dModel, numHeads int, name string) *MultiHeadAttention[B] {
	return internal.NewMultiHeadAttention(backend, dModel, numHeads, name)
}

// NewFeedForward creates the position-wise MLP.
func NewFeedForward[B tensor.Backend](backend B, dModel, dFF int, name string) *FeedForward[B] {
	return internal.NewFeedForward(backend, dModel, dFF, name)
}

// NewEncoderLayer creates one transformer encoder block.
func NewEncoderLayer[B tensor.Backend](backend B, dModel, numHeads, dFF int, eps float32, name string) *EncoderLayer[B] {
	return internal.NewEncoderLayer(backend, dModel, numHeads, dFF, eps, name)
}
