package cpu

import (
	"fmt"
	"math"

	"github.com/percept-ml/percept/internal/tensor"
)

// CrossEntropy computes the mean cross-entropy between raw logits
// [batch, classes] and integer class targets [batch], returning a
// scalar tensor of shape [1]. The per-row loss is computed as
// logsumexp(logits) - logits[target] for numerical stability.
func (cpu *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	lShape := logits.Shape()
	if len(lShape) != 2 {
		panic(fmt.Sprintf("cross_entropy: expected 2D logits, got %v", lShape))
	}
	tShape := targets.Shape()
	if len(tShape) != 1 || tShape[0] != lShape[0] {
		panic(fmt.Sprintf("cross_entropy: expected targets [%d], got %v", lShape[0], tShape))
	}
	if targets.DType() != tensor.Int32 && targets.DType() != tensor.Int64 {
		panic(fmt.Sprintf("cross_entropy: expected integer targets, got %s", targets.DType()))
	}

	batch, classes := lShape[0], lShape[1]
	result := mustNewRaw(tensor.Shape{1}, logits.DType(), cpu.device, "cross_entropy")

	targetAt := func(i int) int {
		if targets.DType() == tensor.Int32 {
			return int(targets.AsInt32()[i])
		}
		return int(targets.AsInt64()[i])
	}

	var total float64
	switch logits.DType() {
	case tensor.Float32:
		src := logits.AsFloat32()
		for i := 0; i < batch; i++ {
			row := src[i*classes : (i+1)*classes]
			t := targetAt(i)
			if t < 0 || t >= classes {
				panic(fmt.Sprintf("cross_entropy: target %d out of range [0, %d)", t, classes))
			}
			total += logSumExpFloat32(row) - float64(row[t])
		}
		result.AsFloat32()[0] = float32(total / float64(batch))
	case tensor.Float64:
		src := logits.AsFloat64()
		for i := 0; i < batch; i++ {
			row := src[i*classes : (i+1)*classes]
			t := targetAt(i)
			if t < 0 || t >= classes {
				panic(fmt.Sprintf("cross_entropy: target %d out of range [0, %d)", t, classes))
			}
			total += logSumExpFloat64(row) - row[t]
		}
		result.AsFloat64()[0] = total / float64(batch)
	default:
		panic(fmt.Sprintf("cross_entropy: unsupported dtype %s", logits.DType()))
	}
	return result
}

func logSumExpFloat32(row []float32) float64 {
	maxVal := row[0]
	for _, v := range row[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for _, v := range row {
		sum += math.Exp(float64(v - maxVal))
	}
	return float64(maxVal) + math.Log(sum)
}

func logSumExpFloat64(row []float64) float64 {
	maxVal := row[0]
	for _, v := range row[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for _, v := range row {
		sum += math.Exp(v - maxVal)
	}
	return maxVal + math.Log(sum)
}
