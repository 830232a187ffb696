package autodiff

import (
	"math"
	"testing"

	"github.com/percept-ml/percept/internal/backend/cpu"
	"github.com/percept-ml/percept/internal/tensor"
)

func newBackend() *Backend[*cpu.CPUBackend] {
	return New(cpu.New())
}

func rawFromFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw(%v) failed: %v", shape, err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func TestTapeRecordsOnlyWhenStarted(t *testing.T) {
	ab := newBackend()
	a := rawFromFloat32(t, []float32{1, 2}, tensor.Shape{2})
	b := rawFromFloat32(t, []float32{3, 4}, tensor.Shape{2})

	ab.Add(a, b)
	if ab.Tape().Len() != 0 {
		t.Fatalf("stopped tape recorded %d ops, want 0", ab.Tape().Len())
	}

	ab.Tape().Start()
	c := rawFromFloat32(t, []float32{1, 2}, tensor.Shape{2})
	d := rawFromFloat32(t, []float32{3, 4}, tensor.Shape{2})
	ab.Add(c, d)
	if ab.Tape().Len() != 1 {
		t.Fatalf("recording tape holds %d ops, want 1", ab.Tape().Len())
	}

	ab.Tape().Clear()
	if ab.Tape().Len() != 0 {
		t.Fatalf("cleared tape holds %d ops, want 0", ab.Tape().Len())
	}
}

func TestBackwardMatMul(t *testing.T) {
	ab := newBackend()
	ab.Tape().Start()

	a := rawFromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromFloat32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	c := ab.MatMul(a, b)
	loss := ab.Sum(c)
	grads := ab.Backward(loss)

	// d(sum(A@B))/dA = ones @ B^T, d/dB = A^T @ ones.
	wantA := []float32{11, 15, 11, 15}
	wantB := []float32{4, 4, 6, 6}
	gotA := grads[a].AsFloat32()
	gotB := grads[b].AsFloat32()
	for i := range wantA {
		if math.Abs(float64(gotA[i]-wantA[i])) > 1e-5 {
			t.Errorf("gradA[%d] = %v, want %v", i, gotA[i], wantA[i])
		}
		if math.Abs(float64(gotB[i]-wantB[i])) > 1e-5 {
			t.Errorf("gradB[%d] = %v, want %v", i, gotB[i], wantB[i])
		}
	}
}

func TestBackwardAccumulatesSharedInput(t *testing.T) {
	ab := newBackend()
	ab.Tape().Start()

	x := rawFromFloat32(t, []float32{2, 3}, tensor.Shape{2})
	// y = x*x; dy/dx = 2x through two paths into Mul.
	y := ab.Mul(x, x)
	loss := ab.Sum(y)
	grads := ab.Backward(loss)

	got := grads[x].AsFloat32()
	want := []float32{4, 6}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Errorf("grad[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBackwardBroadcastBias(t *testing.T) {
	ab := newBackend()
	ab.Tape().Start()

	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := rawFromFloat32(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	y := ab.Add(x, bias)
	loss := ab.Sum(y)
	grads := ab.Backward(loss)

	if !grads[bias].Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("bias grad shape = %v, want [1 3]", grads[bias].Shape())
	}
	// Each bias element is used by both rows.
	for i, v := range grads[bias].AsFloat32() {
		if v != 2 {
			t.Errorf("bias grad[%d] = %v, want 2", i, v)
		}
	}
}

func TestBackwardCrossEntropy(t *testing.T) {
	ab := newBackend()
	ab.Tape().Start()

	logits := rawFromFloat32(t, []float32{0, 0, 0, 0}, tensor.Shape{1, 4})
	targets, err := tensor.NewRaw(tensor.Shape{1}, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	targets.AsInt32()[0] = 2

	loss := ab.CrossEntropy(logits, targets)
	grads := ab.Backward(loss)

	// Uniform softmax is 0.25 everywhere; target entry gets -1.
	got := grads[logits].AsFloat32()
	want := []float32{0.25, 0.25, -0.75, 0.25}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Errorf("logit grad[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if _, ok := grads[targets]; ok {
		t.Error("integer targets must not receive a gradient")
	}
}

// TestGradientsNumerically checks a composite expression against
// central finite differences.
func TestGradientsNumerically(t *testing.T) {
	forward := func(ab *Backend[*cpu.CPUBackend], x *tensor.RawTensor) *tensor.RawTensor {
		// f(x) = sum(softmax(relu(x) * 0.5, -1) * x)
		h := ab.MulScalar(ab.ReLU(x), 0.5)
		s := ab.Softmax(h, -1)
		return ab.Sum(ab.Mul(s, x))
	}

	base := []float32{0.5, -1.2, 2.0, 0.1, 1.5, -0.3}
	shape := tensor.Shape{2, 3}

	ab := newBackend()
	ab.Tape().Start()
	x := rawFromFloat32(t, base, shape)
	loss := forward(ab, x)
	grads := ab.Backward(loss)
	analytic := grads[x].AsFloat32()

	const eps = 1e-3
	for i := range base {
		evalAt := func(v float32) float64 {
			probe := make([]float32, len(base))
			copy(probe, base)
			probe[i] = v
			abp := newBackend()
			xp := rawFromFloat32(t, probe, shape)
			return float64(forward(abp, xp).AsFloat32()[0])
		}
		numeric := (evalAt(base[i]+eps) - evalAt(base[i]-eps)) / (2 * eps)
		if math.Abs(numeric-float64(analytic[i])) > 1e-2 {
			t.Errorf("grad[%d]: analytic %v, numeric %v", i, analytic[i], numeric)
		}
	}
}

func TestBackwardPanicsOnNonScalarLoss(t *testing.T) {
	ab := newBackend()
	ab.Tape().Start()
	x := rawFromFloat32(t, []float32{1, 2}, tensor.Shape{2})
	y := ab.MulScalar(x, 2.0)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-scalar loss")
		}
	}()
	ab.Backward(y)
}
