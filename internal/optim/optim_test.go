package optim

import (
	"testing"

	"github.com/percept-ml/percept/internal/autodiff"
	"github.com/percept-ml/percept/internal/backend/cpu"
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

// quadratic evaluates sum((x - 3)^2) and its gradient for the current
// parameter value.
func quadratic(ab *autodiff.Backend[*cpu.CPUBackend], p *nn.Parameter[*autodiff.Backend[*cpu.CPUBackend]]) (float32, map[*tensor.RawTensor]*tensor.RawTensor) {
	ab.Tape().Clear()
	ab.Tape().Start()
	diff := ab.AddScalar(p.Raw(), -3.0)
	sq := ab.Mul(diff, diff)
	loss := ab.Sum(sq)
	grads := ab.Backward(loss)
	ab.Tape().Stop()
	return loss.AsFloat32()[0], grads
}

func setup(t *testing.T) (*autodiff.Backend[*cpu.CPUBackend], *nn.Parameter[*autodiff.Backend[*cpu.CPUBackend]]) {
	t.Helper()
	ab := autodiff.New(cpu.New())
	w, err := tensor.FromSlice([]float32{0, 10, -5}, tensor.Shape{3}, ab)
	if err != nil {
		t.Fatal(err)
	}
	return ab, nn.NewParameter("w", w)
}

func TestSGDConvergesOnQuadratic(t *testing.T) {
	ab, p := setup(t)
	opt := NewSGD([]*nn.Parameter[*autodiff.Backend[*cpu.CPUBackend]]{p}, 0.1, 0)

	var loss float32
	for i := 0; i < 100; i++ {
		var grads map[*tensor.RawTensor]*tensor.RawTensor
		loss, grads = quadratic(ab, p)
		opt.Step(grads)
	}
	if loss > 1e-3 {
		t.Fatalf("SGD did not converge: final loss %v", loss)
	}
	for i, v := range p.Raw().AsFloat32() {
		if v < 2.9 || v > 3.1 {
			t.Errorf("w[%d] = %v, want ~3", i, v)
		}
	}
}

func TestSGDMomentumConverges(t *testing.T) {
	ab, p := setup(t)
	opt := NewSGD([]*nn.Parameter[*autodiff.Backend[*cpu.CPUBackend]]{p}, 0.05, 0.9)

	var loss float32
	for i := 0; i < 200; i++ {
		var grads map[*tensor.RawTensor]*tensor.RawTensor
		loss, grads = quadratic(ab, p)
		opt.Step(grads)
	}
	if loss > 1e-2 {
		t.Fatalf("SGD with momentum did not converge: final loss %v", loss)
	}
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	ab, p := setup(t)
	opt := NewAdam([]*nn.Parameter[*autodiff.Backend[*cpu.CPUBackend]]{p}, 0.2)

	var loss float32
	for i := 0; i < 300; i++ {
		var grads map[*tensor.RawTensor]*tensor.RawTensor
		loss, grads = quadratic(ab, p)
		opt.Step(grads)
	}
	if loss > 1e-2 {
		t.Fatalf("Adam did not converge: final loss %v", loss)
	}
}

func TestStepSkipsParamsWithoutGradients(t *testing.T) {
	_, p := setup(t)
	before := append([]float32{}, p.Raw().AsFloat32()...)

	opt := NewSGD([]*nn.Parameter[*autodiff.Backend[*cpu.CPUBackend]]{p}, 0.1, 0)
	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	for i, v := range p.Raw().AsFloat32() {
		if v != before[i] {
			t.Fatalf("parameter moved without a gradient: w[%d] = %v, want %v", i, v, before[i])
		}
	}
}
