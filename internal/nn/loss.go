package nn

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// CrossEntropyLoss computes mean cross-entropy from raw logits and
// integer class targets. Softmax is folded into the loss; models emit
// logits directly.
type CrossEntropyLoss[B tensor.Backend] struct{}

// Forward takes logits [batch, classes] and targets [batch], returning
// a scalar loss of shape [1].
func (CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	if len(logits.Shape()) != 2 {
		panic(fmt.Sprintf("cross entropy: expected 2D logits, got %v", logits.Shape()))
	}
	raw := logits.Backend().CrossEntropy(logits.Raw(), targets.Raw())
	return tensor.New[float32](raw, logits.Backend())
}
