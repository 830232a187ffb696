package nn

import (
	"fmt"
	"math"

	"github.com/percept-ml/percept/internal/tensor"
)

// ScaledDotProductAttention computes softmax(QK^T / sqrt(dk)) V over
// the trailing two dimensions of [batch, heads, seq, dk] inputs. No
// masking is applied: every position attends to every other.
type ScaledDotProductAttention[B tensor.Backend] struct{}

// Forward returns the attended values [batch, heads, seq, dk] and the
// attention weights [batch, heads, seq, seq].
func (ScaledDotProductAttention[B]) Forward(q, k, v *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	qShape := q.Shape()
	if len(qShape) != 4 {
		panic(fmt.Sprintf("attention: expected 4D query, got %v", qShape))
	}
	dk := qShape[len(qShape)-1]
	scale := float32(1.0 / math.Sqrt(float64(dk)))

	scores := q.BatchMatMul(k.Transpose(0, 1, 3, 2)).MulScalar(scale)
	weights := scores.Softmax(-1)
	return weights.BatchMatMul(v), weights
}
