package vit

import (
	"fmt"

	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

// TransformerEncoder is the full classification model: patch embedding,
// positional encoding, encoder stack, final norm, mean pooling and a
// linear classification head.
type TransformerEncoder[B tensor.Backend] struct {
	Config Config

	PatchEmbed *nn.Linear[B]
	PosEnc     *nn.PositionalEncoding[B]
	Layers     []*nn.EncoderLayer[B]
	FinalNorm  *nn.LayerNorm[B]
	Head       *nn.Linear[B]

	backend B
}

// New validates the configuration and builds the model with freshly
// initialized weights.
func New[B tensor.Backend](cfg Config, backend B) (*TransformerEncoder[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &TransformerEncoder[B]{
		Config:     cfg,
		PatchEmbed: nn.NewLinear(backend, cfg.PatchDim(), cfg.DModel, true, "patch_embed"),
		PosEnc:     nn.NewPositionalEncoding(backend, cfg.DModel, cfg.NumPatches()),
		FinalNorm:  nn.NewLayerNorm(backend, cfg.DModel, cfg.eps(), "final_norm"),
		Head:       nn.NewLinear(backend, cfg.DModel, cfg.NumClasses, true, "head"),
		backend:    backend,
	}
	for i := 0; i < cfg.NumLayers; i++ {
		name := fmt.Sprintf("layer%d", i)
		m.Layers = append(m.Layers, nn.NewEncoderLayer(backend, cfg.DModel, cfg.NumHeads, cfg.DFF, cfg.eps(), name))
	}
	return m, nil
}

// Forward classifies a batch of [batch, 3, imgSize, imgSize] images,
// returning logits [batch, numClasses].
func (m *TransformerEncoder[B]) Forward(images *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	shape := images.Shape()
	if len(shape) != 4 || shape[1] != Channels || shape[2] != m.Config.ImgSize || shape[3] != m.Config.ImgSize {
		return nil, fmt.Errorf("vit: expected [batch, %d, %d, %d] input, got %v",
			Channels, m.Config.ImgSize, m.Config.ImgSize, shape)
	}

	patches, err := Patchify(images, m.Config.PatchSize)
	if err != nil {
		return nil, err
	}

	x := m.PatchEmbed.Forward(patches)
	x = m.PosEnc.Forward(x)
	for _, layer := range m.Layers {
		x = layer.Forward(x)
	}
	x = m.FinalNorm.Forward(x)

	pooled := x.MeanDim(1, false) // [batch, dModel]
	return m.Head.Forward(pooled), nil
}

// Predict runs Forward and returns the argmax class per image.
func (m *TransformerEncoder[B]) Predict(images *tensor.Tensor[float32, B]) ([]int32, error) {
	logits, err := m.Forward(images)
	if err != nil {
		return nil, err
	}
	classes := logits.Argmax(1)
	out := make([]int32, len(classes.AsInt32()))
	copy(out, classes.AsInt32())
	return out, nil
}

// Parameters returns every trainable tensor in the model.
func (m *TransformerEncoder[B]) Parameters() []*nn.Parameter[B] {
	params := append([]*nn.Parameter[B]{}, m.PatchEmbed.Parameters()...)
	for _, layer := range m.Layers {
		params = append(params, layer.Parameters()...)
	}
	params = append(params, m.FinalNorm.Parameters()...)
	params = append(params, m.Head.Parameters()...)
	return params
}

// NumParameters returns the total scalar parameter count.
func (m *TransformerEncoder[B]) NumParameters() int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.Tensor.NumElements()
	}
	return total
}
