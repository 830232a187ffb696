// Package vit exposes the Vision Transformer classifier.
package vit

import (
	internal "github.com/percept-ml/percept/internal/vit"
	"github.com/percept-ml/percept/internal/tensor"
)

type (
	// Config describes a Vision Transformer.
	Config = internal.Config
	// TransformerEncoder is the full classification model.
	TransformerEncoder[B tensor.Backend] = internal.TransformerEncoder[B]
)

// Channels is the fixed number of input image channels.
const Channels = internal.Channels

// DefaultConfig returns a mid-sized model for 224x224 RGB binary
// classification.
func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// New validates the configuration and builds a model with fresh
// weights.
func New[B tensor.Backend](cfg Config, backend B) (*TransformerEncoder[B], error) {
	return internal.New(cfg, backend)
}

// Patchify cuts [batch, 3, H, W] images into flattened patches.
func Patchify[B tensor.Backend](images *tensor.Tensor[float32, B], patchSize int) (*tensor.Tensor[float32, B], error) {
	return internal.Patchify(images, patchSize)
}

// Unpatchify rebuilds images from flattened patches.
func Unpatchify[B tensor.Backend](patches *tensor.Tensor[float32, B], patchSize, imgSize int) (*tensor.Tensor[float32, B], error) {
	return internal.Unpatchify(patches, patchSize, imgSize)
}
