// Package vit implements a Vision Transformer encoder for image
// classification: square RGB images are cut into non-overlapping
// patches, linearly embedded, tagged with sinusoidal positions, run
// through a stack of transformer encoder layers, mean-pooled, and
// projected to class logits.
package vit

import "fmt"

// Config describes a Vision Transformer. All fields are required.
type Config struct {
	ImgSize    int // input height and width in pixels
	PatchSize  int // patch edge length; must divide ImgSize
	DModel     int // embedding width; must be divisible by NumHeads
	NumHeads   int
	NumLayers  int
	DFF        int     // feed-forward hidden width
	NumClasses int
	Eps        float32 // layer norm epsilon; defaulted when zero
}

// DefaultEps is used when Config.Eps is left zero.
const DefaultEps = 1e-5

// Channels is the fixed number of input image channels.
const Channels = 3

// DefaultConfig returns a mid-sized model for 224x224 RGB
// binary classification.
func DefaultConfig() Config {
	return Config{
		ImgSize:    224,
		PatchSize:  16,
		DModel:     256,
		NumHeads:   8,
		NumLayers:  6,
		DFF:        1024,
		NumClasses: 2,
		Eps:        DefaultEps,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.ImgSize <= 0 {
		return fmt.Errorf("vit: ImgSize must be positive, got %d", c.ImgSize)
	}
	if c.PatchSize <= 0 {
		return fmt.Errorf("vit: PatchSize must be positive, got %d", c.PatchSize)
	}
	if c.ImgSize%c.PatchSize != 0 {
		return fmt.Errorf("vit: ImgSize %d is not divisible by PatchSize %d", c.ImgSize, c.PatchSize)
	}
	if c.DModel <= 0 {
		return fmt.Errorf("vit: DModel must be positive, got %d", c.DModel)
	}
	if c.NumHeads <= 0 {
		return fmt.Errorf("vit: NumHeads must be positive, got %d", c.NumHeads)
	}
	if c.DModel%c.NumHeads != 0 {
		return fmt.Errorf("vit: DModel %d is not divisible by NumHeads %d", c.DModel, c.NumHeads)
	}
	if c.NumLayers <= 0 {
		return fmt.Errorf("vit: NumLayers must be positive, got %d", c.NumLayers)
	}
	if c.DFF <= 0 {
		return fmt.Errorf("vit: DFF must be positive, got %d", c.DFF)
	}
	if c.NumClasses <= 0 {
		return fmt.Errorf("vit: NumClasses must be positive, got %d", c.NumClasses)
	}
	if c.Eps < 0 {
		return fmt.Errorf("vit: Eps must be non-negative, got %v", c.Eps)
	}
	return nil
}

// NumPatches returns the sequence length produced by patchify.
func (c Config) NumPatches() int {
	side := c.ImgSize / c.PatchSize
	return side * side
}

// PatchDim returns the flattened size of one patch.
func (c Config) PatchDim() int {
	return Channels * c.PatchSize * c.PatchSize
}

func (c Config) eps() float32 {
	if c.Eps == 0 {
		return DefaultEps
	}
	return c.Eps
}
