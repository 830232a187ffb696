package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	cfg := DefaultConfig()
	const n = 1000

	var counts [n]atomic.Int32
	For(n, func(i int) {
		counts[i].Add(1)
	}, cfg)

	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, got)
		}
	}
}

func TestForSequentialFallback(t *testing.T) {
	cfg := Config{Enabled: false}
	visited := make([]bool, 10)
	For(10, func(i int) {
		visited[i] = true
	}, cfg)
	for i, v := range visited {
		if !v {
			t.Fatalf("index %d not visited", i)
		}
	}
}

func TestForSmallRangeStaysSequential(t *testing.T) {
	cfg := DefaultConfig()
	// Below MinChunkSize the plain slice write must be safe.
	visited := make([]bool, cfg.MinChunkSize-1)
	For(len(visited), func(i int) {
		visited[i] = true
	}, cfg)
	for i, v := range visited {
		if !v {
			t.Fatalf("index %d not visited", i)
		}
	}
}

func TestForBatch(t *testing.T) {
	cfg := DefaultConfig()
	var total atomic.Int64
	ForBatch(8, 16, func(b, i int) {
		total.Add(int64(b*16 + i))
	}, cfg)

	want := int64(128 * 127 / 2)
	if got := total.Load(); got != want {
		t.Fatalf("ForBatch sum = %d, want %d", got, want)
	}
}

func TestForZeroItems(t *testing.T) {
	called := false
	For(0, func(int) { called = true }, DefaultConfig())
	if called {
		t.Fatal("callback invoked for empty range")
	}
}
