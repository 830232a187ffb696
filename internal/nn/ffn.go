package nn

import "github.com/percept-ml/percept/internal/tensor"

// FeedForward is the position-wise two-layer MLP applied independently
// at every sequence position: Linear -> ReLU -> Linear.
type FeedForward[B tensor.Backend] struct {
	FC1 *Linear[B]
	FC2 *Linear[B]
}

// NewFeedForward expands dModel to dFF and projects back.
func NewFeedForward[B tensor.Backend](backend B, dModel, dFF int, name string) *FeedForward[B] {
	return &FeedForward[B]{
		FC1: NewLinear(backend, dModel, dFF, true, name+".fc1"),
		FC2: NewLinear(backend, dFF, dModel, true, name+".fc2"),
	}
}

func (f *FeedForward[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return f.FC2.Forward(f.FC1.Forward(x).ReLU())
}

func (f *FeedForward[B]) Parameters() []*Parameter[B] {
	return collectParameters[B](f.FC1, f.FC2)
}
