package autodiff

import (
	"sync"

	"github.com/percept-ml/percept/internal/autodiff/ops"
)

// GradientTape records operations during the forward pass so they can
// be replayed in reverse. Recording is off until Start is called;
// inference runs with the tape stopped and pays nothing.
type GradientTape struct {
	mu        sync.Mutex
	recording bool
	ops       []ops.Operation
}

// NewGradientTape creates a stopped tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{}
}

// Start begins recording operations.
func (t *GradientTape) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = true
}

// Stop pauses recording without discarding recorded operations.
func (t *GradientTape) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = false
}

// Clear discards all recorded operations. Call between training steps.
func (t *GradientTape) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = t.ops[:0]
}

// Record appends an operation if the tape is recording.
func (t *GradientTape) Record(op ops.Operation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recording {
		t.ops = append(t.ops, op)
	}
}

// Operations returns a snapshot of the recorded operations in forward
// order.
func (t *GradientTape) Operations() []ops.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := make([]ops.Operation, len(t.ops))
	copy(snapshot, t.ops)
	return snapshot
}

// Len reports the number of recorded operations.
func (t *GradientTape) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ops)
}
