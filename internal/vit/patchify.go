package vit

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// Patchify cuts [batch, 3, H, W] images into non-overlapping square
// patches and flattens each to a vector, producing
// [batch, numPatches, 3*patchSize*patchSize].
//
// Patches are ordered row-major over the patch grid. Within a patch
// the layout is channel-major: all of channel 0's pixels (row-major),
// then channel 1, then channel 2.
func Patchify[B tensor.Backend](images *tensor.Tensor[float32, B], patchSize int) (*tensor.Tensor[float32, B], error) {
	shape := images.Shape()
	if len(shape) != 4 || shape[1] != Channels {
		return nil, fmt.Errorf("patchify: expected [batch, %d, H, W] input, got %v", Channels, shape)
	}
	batch, height, width := shape[0], shape[2], shape[3]
	if height != width {
		return nil, fmt.Errorf("patchify: expected square images, got %dx%d", height, width)
	}
	if patchSize <= 0 || height%patchSize != 0 {
		return nil, fmt.Errorf("patchify: image size %d is not divisible by patch size %d", height, patchSize)
	}

	side := height / patchSize
	numPatches := side * side
	patchDim := Channels * patchSize * patchSize

	out := tensor.Zeros[float32](tensor.Shape{batch, numPatches, patchDim}, images.Backend())
	src, dst := images.Data(), out.Data()

	for b := 0; b < batch; b++ {
		imgBase := b * Channels * height * width
		for ti := 0; ti < side; ti++ {
			for tj := 0; tj < side; tj++ {
				patchBase := (b*numPatches + ti*side + tj) * patchDim
				for c := 0; c < Channels; c++ {
					chanBase := imgBase + c*height*width
					for i := 0; i < patchSize; i++ {
						srcRow := chanBase + (ti*patchSize+i)*width + tj*patchSize
						dstRow := patchBase + (c*patchSize+i)*patchSize
						copy(dst[dstRow:dstRow+patchSize], src[srcRow:srcRow+patchSize])
					}
				}
			}
		}
	}
	return out, nil
}

// Unpatchify is the exact inverse of Patchify, rebuilding
// [batch, 3, imgSize, imgSize] images from flattened patches.
func Unpatchify[B tensor.Backend](patches *tensor.Tensor[float32, B], patchSize, imgSize int) (*tensor.Tensor[float32, B], error) {
	shape := patches.Shape()
	if len(shape) != 3 {
		return nil, fmt.Errorf("unpatchify: expected [batch, patches, dim] input, got %v", shape)
	}
	if patchSize <= 0 || imgSize%patchSize != 0 {
		return nil, fmt.Errorf("unpatchify: image size %d is not divisible by patch size %d", imgSize, patchSize)
	}
	side := imgSize / patchSize
	numPatches := side * side
	patchDim := Channels * patchSize * patchSize
	if shape[1] != numPatches || shape[2] != patchDim {
		return nil, fmt.Errorf("unpatchify: expected [batch, %d, %d] input, got %v", numPatches, patchDim, shape)
	}

	batch := shape[0]
	out := tensor.Zeros[float32](tensor.Shape{batch, Channels, imgSize, imgSize}, patches.Backend())
	src, dst := patches.Data(), out.Data()

	for b := 0; b < batch; b++ {
		imgBase := b * Channels * imgSize * imgSize
		for ti := 0; ti < side; ti++ {
			for tj := 0; tj < side; tj++ {
				patchBase := (b*numPatches + ti*side + tj) * patchDim
				for c := 0; c < Channels; c++ {
					chanBase := imgBase + c*imgSize*imgSize
					for i := 0; i < patchSize; i++ {
						dstRow := chanBase + (ti*patchSize+i)*imgSize + tj*patchSize
						srcRow := patchBase + (c*patchSize+i)*patchSize
						copy(dst[dstRow:dstRow+patchSize], src[srcRow:srcRow+patchSize])
					}
				}
			}
		}
	}
	return out, nil
}
