package ops

import (
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// CrossEntropy records the mean cross-entropy loss between logits
// [batch, classes] and integer targets [batch].
type CrossEntropy struct {
	logits, targets, out *tensor.RawTensor
}

func NewCrossEntropy(logits, targets, out *tensor.RawTensor) *CrossEntropy {
	return &CrossEntropy{logits: logits, targets: targets, out: out}
}

// Backward computes dLogits = (softmax(logits) - onehot(targets)) / batch,
// scaled by the upstream gradient. Targets carry no gradient.
func (op *CrossEntropy) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	release := protect(op.logits)
	defer release()

	probs := backend.Softmax(op.logits, -1)
	batch := op.logits.Shape()[0]
	classes := op.logits.Shape()[1]

	targetAt := func(i int) int {
		if op.targets.DType() == tensor.Int32 {
			return int(op.targets.AsInt32()[i])
		}
		return int(op.targets.AsInt64()[i])
	}

	switch op.logits.DType() {
	case tensor.Float32:
		p := probs.AsFloat32()
		scale := grad.AsFloat32()[0] / float32(batch)
		for i := 0; i < batch; i++ {
			p[i*classes+targetAt(i)] -= 1
			for c := 0; c < classes; c++ {
				p[i*classes+c] *= scale
			}
		}
	case tensor.Float64:
		p := probs.AsFloat64()
		scale := grad.AsFloat64()[0] / float64(batch)
		for i := 0; i < batch; i++ {
			p[i*classes+targetAt(i)] -= 1
			for c := 0; c < classes; c++ {
				p[i*classes+c] *= scale
			}
		}
	default:
		panic(fmt.Sprintf("cross_entropy backward: unsupported dtype %s", op.logits.DType()))
	}
	return []*tensor.RawTensor{probs, nil}
}

func (op *CrossEntropy) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.targets}
}

func (op *CrossEntropy) Output() *tensor.RawTensor { return op.out }
