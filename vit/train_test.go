package vit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/percept-ml/percept/autodiff"
	"github.com/percept-ml/percept/backend/cpu"
	"github.com/percept-ml/percept/nn"
	"github.com/percept-ml/percept/optim"
	"github.com/percept-ml/percept/tensor"
	"github.com/percept-ml/percept/vit"
)

// Trains a tiny model on one fixed batch and checks the loss drops.
// Class 0 images are bright in the top half, class 1 in the bottom.
func TestTrainingReducesLoss(t *testing.T) {
	nn.SeedInit(7)
	backend := autodiff.New(cpu.New())

	cfg := vit.Config{
		ImgSize:    8,
		PatchSize:  4,
		DModel:     8,
		NumHeads:   2,
		NumLayers:  1,
		DFF:        16,
		NumClasses: 2,
	}
	model, err := vit.New(cfg, backend)
	require.NoError(t, err)

	const batch = 4
	images := make([]float32, batch*vit.Channels*cfg.ImgSize*cfg.ImgSize)
	labels := make([]int32, batch)
	for b := 0; b < batch; b++ {
		labels[b] = int32(b % 2)
		for c := 0; c < vit.Channels; c++ {
			for y := 0; y < cfg.ImgSize; y++ {
				v := float32(0.1)
				if (labels[b] == 0) == (y < cfg.ImgSize/2) {
					v = 0.9
				}
				for x := 0; x < cfg.ImgSize; x++ {
					images[((b*vit.Channels+c)*cfg.ImgSize+y)*cfg.ImgSize+x] = v
				}
			}
		}
	}
	imgTensor, err := tensor.FromSlice(images, tensor.Shape{batch, vit.Channels, cfg.ImgSize, cfg.ImgSize}, backend)
	require.NoError(t, err)
	labelTensor, err := tensor.FromSlice(labels, tensor.Shape{batch}, backend)
	require.NoError(t, err)

	opt := optim.NewAdam(model.Parameters(), 0.01)
	var lossFn nn.CrossEntropyLoss[*autodiff.Backend[*cpu.Backend]]
	tape := backend.Tape()

	losses := make([]float32, 0, 40)
	for step := 0; step < 40; step++ {
		tape.Clear()
		tape.Start()
		logits, err := model.Forward(imgTensor)
		require.NoError(t, err)
		loss := lossFn.Forward(logits, labelTensor)
		grads := backend.Backward(loss.Raw())
		tape.Stop()
		opt.Step(grads)
		losses = append(losses, loss.Item())
	}

	first, last := losses[0], losses[len(losses)-1]
	require.Lessf(t, last, first, "loss did not decrease: first %v, last %v", first, last)
	require.False(t, last != last, "loss became NaN")

	// The model must fit a single repeated batch.
	preds, err := model.Predict(imgTensor)
	require.NoError(t, err)
	correct := 0
	for i, p := range preds {
		if p == labels[i] {
			correct++
		}
	}
	require.GreaterOrEqual(t, correct, 3, "model failed to fit the training batch")
}
