package cpu

import (
	"math"
	"testing"

	"github.com/percept-ml/percept/internal/tensor"
)

func rawFromFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw(%v) failed: %v", shape, err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func rawFromInt32(t *testing.T, data []int32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw(%v) failed: %v", shape, err)
	}
	copy(raw.AsInt32(), data)
	return raw
}

func approxEqual(a, b, tol float32) bool {
	return float32(math.Abs(float64(a-b))) <= tol
}

func TestAdd(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromFloat32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := cpu.Add(a, b)
	want := []float32{11, 22, 33, 44}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("Add[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestAddBroadcastRow(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := rawFromFloat32(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := cpu.Add(a, bias)
	if !result.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("broadcast shape = %v, want [2 3]", result.Shape())
	}
	want := []float32{11, 22, 33, 14, 25, 36}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("Add[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestAddShapeMismatchPanics(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := rawFromFloat32(t, []float32{1, 2}, tensor.Shape{2})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for incompatible shapes")
		}
	}()
	cpu.Add(a, b)
}

func TestMatMul(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromFloat32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := cpu.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("MatMul shape = %v, want [2 2]", result.Shape())
	}
	want := []float32{58, 64, 139, 154}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("MatMul[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestBatchMatMul(t *testing.T) {
	cpu := New()
	// Two independent 2x2 products.
	a := rawFromFloat32(t, []float32{
		1, 0, 0, 1, // identity
		1, 2, 3, 4,
	}, tensor.Shape{2, 2, 2})
	b := rawFromFloat32(t, []float32{
		5, 6, 7, 8,
		1, 0, 0, 1, // identity
	}, tensor.Shape{2, 2, 2})

	result := cpu.BatchMatMul(a, b)
	want := []float32{5, 6, 7, 8, 1, 2, 3, 4}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("BatchMatMul[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestTranspose2D(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := cpu.Transpose(a)
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v, want [3 2]", result.Shape())
	}
	want := []float32{1, 4, 2, 5, 3, 6}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("Transpose[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestTranspose4DAxes(t *testing.T) {
	cpu := New()
	data := make([]float32, 2*3*4*5)
	for i := range data {
		data[i] = float32(i)
	}
	a := rawFromFloat32(t, data, tensor.Shape{2, 3, 4, 5})

	result := cpu.Transpose(a, 0, 2, 1, 3)
	if !result.Shape().Equal(tensor.Shape{2, 4, 3, 5}) {
		t.Fatalf("Transpose shape = %v, want [2 4 3 5]", result.Shape())
	}
	// Element at [b, h, s, d] in output must equal [b, s, h, d] in input.
	out := result.AsFloat32()
	get := func(b, s, h, d int) float32 { return data[((b*3+s)*4+h)*5+d] }
	for b := 0; b < 2; b++ {
		for h := 0; h < 4; h++ {
			for s := 0; s < 3; s++ {
				for d := 0; d < 5; d++ {
					got := out[((b*4+h)*3+s)*5+d]
					if got != get(b, s, h, d) {
						t.Fatalf("Transpose[%d %d %d %d] = %v, want %v", b, h, s, d, got, get(b, s, h, d))
					}
				}
			}
		}
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 1000, 1001, 1002}, tensor.Shape{2, 3})

	result := cpu.Softmax(a, -1)
	out := result.AsFloat32()
	for r := 0; r < 2; r++ {
		var sum float32
		for c := 0; c < 3; c++ {
			v := out[r*3+c]
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("Softmax[%d %d] = %v, not finite", r, c, v)
			}
			sum += v
		}
		if !approxEqual(sum, 1.0, 1e-5) {
			t.Errorf("Softmax row %d sums to %v, want 1.0", r, sum)
		}
	}
	// Shifting a row by a constant must not change the result.
	for c := 0; c < 3; c++ {
		if !approxEqual(out[c], out[3+c], 1e-5) {
			t.Errorf("Softmax shift invariance violated at col %d: %v vs %v", c, out[c], out[3+c])
		}
	}
}

func TestSumDimAndMeanDim(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	sum := cpu.SumDim(a, 1, false)
	if !sum.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("SumDim shape = %v, want [2]", sum.Shape())
	}
	wantSum := []float32{6, 15}
	for i, v := range sum.AsFloat32() {
		if v != wantSum[i] {
			t.Errorf("SumDim[%d] = %v, want %v", i, v, wantSum[i])
		}
	}

	mean := cpu.MeanDim(a, 1, true)
	if !mean.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("MeanDim keepDim shape = %v, want [2 1]", mean.Shape())
	}
	wantMean := []float32{2, 5}
	for i, v := range mean.AsFloat32() {
		if v != wantMean[i] {
			t.Errorf("MeanDim[%d] = %v, want %v", i, v, wantMean[i])
		}
	}

	meanCols := cpu.MeanDim(a, 0, false)
	wantCols := []float32{2.5, 3.5, 4.5}
	for i, v := range meanCols.AsFloat32() {
		if v != wantCols[i] {
			t.Errorf("MeanDim dim=0 [%d] = %v, want %v", i, v, wantCols[i])
		}
	}
}

func TestArgmax(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{0.1, 0.9, 0.3, 0.8, 0.2, 0.5}, tensor.Shape{2, 3})

	result := cpu.Argmax(a, 1)
	if result.DType() != tensor.Int32 {
		t.Fatalf("Argmax dtype = %s, want int32", result.DType())
	}
	want := []int32{1, 0}
	for i, v := range result.AsInt32() {
		if v != want[i] {
			t.Errorf("Argmax[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestCrossEntropy(t *testing.T) {
	cpu := New()
	// Uniform logits over 4 classes: loss must be ln(4).
	logits := rawFromFloat32(t, []float32{0, 0, 0, 0, 0, 0, 0, 0}, tensor.Shape{2, 4})
	targets := rawFromInt32(t, []int32{1, 3}, tensor.Shape{2})

	loss := cpu.CrossEntropy(logits, targets)
	got := loss.AsFloat32()[0]
	want := float32(math.Log(4))
	if !approxEqual(got, want, 1e-5) {
		t.Errorf("CrossEntropy = %v, want %v", got, want)
	}
}

func TestCrossEntropyLargeLogitsStable(t *testing.T) {
	cpu := New()
	logits := rawFromFloat32(t, []float32{10000, 9999}, tensor.Shape{1, 2})
	targets := rawFromInt32(t, []int32{0}, tensor.Shape{1})

	loss := cpu.CrossEntropy(logits, targets)
	got := float64(loss.AsFloat32()[0])
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("CrossEntropy with large logits = %v, want finite", got)
	}
}

func TestScalarOps(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})
	defer a.ForceNonUnique()()

	scaled := cpu.MulScalar(a, float32(2))
	want := []float32{2, 4, 6}
	for i, v := range scaled.AsFloat32() {
		if v != want[i] {
			t.Errorf("MulScalar[%d] = %v, want %v", i, v, want[i])
		}
	}

	shifted := cpu.AddScalar(a, float32(10))
	want = []float32{11, 12, 13}
	for i, v := range shifted.AsFloat32() {
		if v != want[i] {
			t.Errorf("AddScalar[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestRsqrt(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{4, 16, 0.25}, tensor.Shape{3})
	defer a.ForceNonUnique()()

	result := cpu.Rsqrt(a)
	want := []float32{0.5, 0.25, 2}
	for i, v := range result.AsFloat32() {
		if !approxEqual(v, want[i], 1e-6) {
			t.Errorf("Rsqrt[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestUnsqueeze(t *testing.T) {
	cpu := New()
	a := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	if got := cpu.Unsqueeze(a, 0).Shape(); !got.Equal(tensor.Shape{1, 2, 3}) {
		t.Errorf("Unsqueeze(0) shape = %v, want [1 2 3]", got)
	}
	if got := cpu.Unsqueeze(a, -1).Shape(); !got.Equal(tensor.Shape{2, 3, 1}) {
		t.Errorf("Unsqueeze(-1) shape = %v, want [2 3 1]", got)
	}
}
