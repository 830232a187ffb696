package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	cases := []struct {
		shape Shape
		want  int
	}{
		{Shape{2, 3}, 6},
		{Shape{1}, 1},
		{Shape{4, 1, 5}, 20},
		{Shape{}, 1}, // scalar convention
	}
	for _, c := range cases {
		if got := c.shape.NumElements(); got != c.want {
			t.Errorf("NumElements(%v) = %d, want %d", c.shape, got, c.want)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i, s := range strides {
		if s != want[i] {
			t.Errorf("stride[%d] = %d, want %d", i, s, want[i])
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	cases := []struct {
		a, b, want Shape
		needs      bool
		ok         bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, true},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true, true},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true, true},
		{Shape{4, 1, 5}, Shape{3, 5}, Shape{4, 3, 5}, true, true},
		{Shape{2, 3}, Shape{2, 4}, nil, false, false},
	}
	for _, c := range cases {
		got, needs, err := BroadcastShapes(c.a, c.b)
		if c.ok && err != nil {
			t.Errorf("BroadcastShapes(%v, %v) failed: %v", c.a, c.b, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want error", c.a, c.b, got)
			}
			continue
		}
		if !got.Equal(c.want) || needs != c.needs {
			t.Errorf("BroadcastShapes(%v, %v) = %v/%v, want %v/%v", c.a, c.b, got, needs, c.want, c.needs)
		}
	}
}

func TestNewRawRejectsInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("expected error for negative dimension")
	}
	if _, err := NewRaw(Shape{0, 3}, Float32, CPU); err == nil {
		t.Error("expected error for zero dimension")
	}
}

func TestDTypeViewMismatchPanics(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic viewing float32 data as int64")
		}
	}()
	raw.AsInt64()
}

func TestCloneIsCopyOnWrite(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(raw.AsFloat32(), []float32{1, 2, 3})

	clone := raw.Clone()
	if raw.IsUnique() || clone.IsUnique() {
		t.Fatal("clone must share the buffer until written")
	}
	clone.Release()
	if !raw.IsUnique() {
		t.Fatal("releasing the clone must restore uniqueness")
	}
}

func TestForceNonUnique(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	release := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Fatal("ForceNonUnique must mark the buffer shared")
	}
	release()
	if !raw.IsUnique() {
		t.Fatal("release must restore uniqueness")
	}
}

func TestAtSetRoundTrip(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	x := New[float32](raw, Backend(nil))

	x.Set(42, 1, 2)
	if got := x.At(1, 2); got != 42 {
		t.Errorf("At(1,2) = %v, want 42", got)
	}
	if got := x.At(0, 0); got != 0 {
		t.Errorf("At(0,0) = %v, want 0", got)
	}
}
